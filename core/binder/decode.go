package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// decodeInto assigns string values from src to the tagged fields of the
// struct v points at. Fields without a matching key keep their zero
// value; conversion failures wrap sentinel.
func decodeInto(v any, tag string, src map[string][]string, sentinel error) error {
	target, err := structValue(v, sentinel)
	if err != nil {
		return err
	}

	t := target.Type()
	for i := 0; i < target.NumField(); i++ {
		field := target.Field(i)
		if !field.CanSet() {
			continue
		}

		key, skip := fieldKey(t.Field(i), tag)
		if skip {
			continue
		}
		values := src[key]
		if len(values) == 0 {
			continue
		}

		if err := assign(field, values); err != nil {
			return fmt.Errorf("%w: field %s: %v", sentinel, t.Field(i).Name, err)
		}
	}
	return nil
}

// structValue dereferences v down to a settable struct value.
func structValue(v any, sentinel error) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer", sentinel)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target must be a pointer to struct", sentinel)
	}
	return rv, nil
}

// fieldKey resolves the source key for a struct field. An absent tag
// falls back to the lowercased field name; "-" skips the field. Options
// after the first comma ("omitempty" and friends) are irrelevant for
// decoding and dropped.
func fieldKey(f reflect.StructField, tag string) (key string, skip bool) {
	raw := f.Tag.Get(tag)
	switch raw {
	case "":
		return strings.ToLower(f.Name), false
	case "-":
		return "", true
	}
	key, _, _ = strings.Cut(raw, ",")
	return key, key == ""
}

// assign converts values into the field, allocating through pointers
// and fanning out over slices.
func assign(field reflect.Value, values []string) error {
	ft := field.Type()

	if ft.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(ft.Elem()))
		}
		return assign(field.Elem(), values)
	}

	if ft.Kind() == reflect.Slice {
		return assignSlice(field, values)
	}

	return assignScalar(field, values[0])
}

func assignScalar(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(cleanString(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", field.Kind())
	}
	return nil
}

// parseBool accepts strconv forms plus the values HTML forms send for
// checkboxes and toggles.
func parseBool(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid bool value %q", value)
}

// assignSlice fills a slice field. Multi-value keys and single
// comma-separated values both expand, so ?tags=a&tags=b and ?tags=a,b
// decode the same way.
func assignSlice(field reflect.Value, values []string) error {
	var flat []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			flat = append(flat, strings.TrimSpace(part))
		}
	}

	slice := reflect.MakeSlice(field.Type(), len(flat), len(flat))
	for i, v := range flat {
		if err := assign(slice.Index(i), []string{v}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}

// cleanString strips NUL bytes, CR/LF (header-injection vectors), and
// non-printable control characters from decoded string input. Tabs and
// printable unicode pass through.
func cleanString(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r == 0, r == '\r', r == '\n':
		case r == '\t', r >= ' ', unicode.IsGraphic(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
