package binder

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
)

// DefaultMaxMemory caps in-memory multipart parsing at 10MB; larger
// uploads spill to temp files.
const DefaultMaxMemory = 10 << 20

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// Form binds application/x-www-form-urlencoded and multipart/form-data
// bodies. Value fields are tagged `form` and follow the same rules as
// Query. File fields are tagged `file` and must be typed
// *multipart.FileHeader or []*multipart.FileHeader:
//
//	type UploadRequest struct {
//		Title   string                  `form:"title"`
//		Tags    []string                `form:"tags"`
//		Avatar  *multipart.FileHeader   `file:"avatar"`
//		Gallery []*multipart.FileHeader `file:"gallery"`
//		Secret  string                  `form:"-"`
//	}
//
// Uploaded filenames are reduced to their base name before binding, so
// a crafted "../../etc/passwd" arrives as "passwd". The multipart form
// is not removed after binding; files stay readable in the handler.
//
// Failures wrap ErrMissingContentType, ErrUnsupportedMediaType, or
// ErrFailedToParseForm.
func Form() Binder {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return fmt.Errorf("%w: expected form content", ErrMissingContentType)
		}
		mediaType, params, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: malformed content type %q", ErrFailedToParseForm, ct)
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			values = r.Form

		case "multipart/form-data":
			if !boundaryOK(params["boundary"]) {
				return fmt.Errorf("%w: invalid multipart boundary", ErrFailedToParseForm)
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
			}
			if r.MultipartForm == nil {
				values = map[string][]string{}
				break
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return fmt.Errorf("%w: got %q, expected form content", ErrUnsupportedMediaType, mediaType)
		}

		if err := decodeInto(v, "form", values, ErrFailedToParseForm); err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}
		return bindFiles(v, files)
	}
}

// bindFiles assigns uploaded files to `file`-tagged fields.
func bindFiles(v any, files map[string][]*multipart.FileHeader) error {
	target, err := structValue(v, ErrFailedToParseForm)
	if err != nil {
		return err
	}

	t := target.Type()
	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		sf := t.Field(i)
		if !field.CanSet() {
			continue
		}

		key := sf.Tag.Get("file")
		if key == "" || key == "-" {
			continue
		}
		headers := files[key]
		if len(headers) == 0 {
			continue
		}

		for _, fh := range headers {
			fh.Filename = safeFilename(fh.Filename)
		}

		switch {
		case sf.Type == fileHeaderType:
			field.Set(reflect.ValueOf(headers[0]))
		case sf.Type.Kind() == reflect.Slice && sf.Type.Elem() == fileHeaderType:
			slice := reflect.MakeSlice(sf.Type, len(headers), len(headers))
			for j, fh := range headers {
				slice.Index(j).Set(reflect.ValueOf(fh))
			}
			field.Set(slice)
		default:
			return fmt.Errorf("%w: field %s: file fields must be *multipart.FileHeader or a slice of them", ErrFailedToParseForm, sf.Name)
		}
	}
	return nil
}

// boundaryOK rejects boundary parameters that could smuggle header
// delimiters into the multipart reader.
func boundaryOK(boundary string) bool {
	if boundary == "" || len(boundary) > 100 {
		return false
	}
	return !strings.ContainsAny(boundary, "\x00\r\n")
}

// safeFilename strips directory components from an uploaded filename.
func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(filepath.Base(name), "\x00", "")
	switch name {
	case "", ".", "..", "/":
		return "unnamed"
	}
	return name
}
