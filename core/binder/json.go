package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
)

// DefaultMaxJSONSize caps JSON request bodies at 1MB.
const DefaultMaxJSONSize = 1 << 20

// JSON binds an application/json request body to v. Parsing is
// strict: unknown fields are rejected, bodies over DefaultMaxJSONSize
// are refused, and data trailing the document fails the bind. Charset
// parameters on the Content-Type are accepted.
//
// After decoding, every string reachable from v is scrubbed of NUL,
// CR/LF, and control characters.
//
// Failures wrap ErrMissingContentType, ErrUnsupportedMediaType, or
// ErrFailedToParseJSON.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, ct)
		}

		// Read one byte past the cap so an oversized body is
		// distinguishable from one that is exactly at it.
		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: reading body: %v", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrFailedToParseJSON, DefaultMaxJSONSize)
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
			}
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		// Anything after the first document is suspect.
		if dec.Decode(new(json.RawMessage)) != io.EOF {
			return fmt.Errorf("%w: unexpected data after JSON document", ErrFailedToParseJSON)
		}

		scrubStrings(reflect.ValueOf(v))
		return nil
	}
}

// scrubStrings walks rv and passes every settable string through
// cleanString, so decoded JSON gets the same control-character
// treatment as form and query input.
func scrubStrings(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(cleanString(rv.String()))
		}

	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			scrubStrings(rv.Elem())
		}

	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			scrubStrings(rv.Field(i))
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			scrubStrings(rv.Index(i))
		}

	case reflect.Map:
		// Map values are not addressable; scrubbed copies are written
		// back under the same key.
		for _, key := range rv.MapKeys() {
			v := rv.MapIndex(key)
			if v.Kind() == reflect.String {
				rv.SetMapIndex(key, reflect.ValueOf(cleanString(v.String())))
			}
		}
	}
}
