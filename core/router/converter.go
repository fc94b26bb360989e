package router

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Converter validates and parses one path-parameter type. The regex
// fragment is scoped to a single segment's text (never the whole path),
// so custom converters cannot introduce cross-segment backtracking.
type Converter struct {
	name    string
	rex     *regexp.Regexp
	parse   func(s string) (any, error)
	format  func(v any) (string, error)
	pattern string
}

// Name returns the name the converter is registered under.
func (c *Converter) Name() string { return c.name }

// Pattern returns the converter's regex fragment.
func (c *Converter) Pattern() string { return c.pattern }

// Parse validates s against the converter's pattern and returns the
// typed value.
func (c *Converter) Parse(s string) (any, bool) {
	if !c.rex.MatchString(s) {
		return nil, false
	}
	v, err := c.parse(s)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Format validates v and renders it back to segment text for URL
// reversal.
func (c *Converter) Format(v any) (string, error) {
	s, err := c.format(v)
	if err != nil {
		return "", err
	}
	if !c.rex.MatchString(s) {
		return "", fmt.Errorf("%w: %q does not satisfy converter %q", ErrParameterType, s, c.name)
	}
	return s, nil
}

// Converters is a named registry of path-parameter converters. The zero
// value is not usable; NewConverters pre-registers the built-ins
// (string, int, float, uuid, path). Registration is expected to finish
// before the router serves traffic.
type Converters struct {
	mu    sync.RWMutex
	named map[string]*Converter
}

// NewConverters creates a registry with the built-in converters.
func NewConverters() *Converters {
	c := &Converters{named: make(map[string]*Converter)}
	for _, b := range builtinConverters {
		c.named[b.name] = b
	}
	return c
}

// Register adds a custom converter under name. The pattern is a regex
// fragment matched against a single path segment; parse turns validated
// text into the typed value. Registering an existing name replaces it.
func (c *Converters) Register(name, pattern string, parse func(string) (any, error)) error {
	rex, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return fmt.Errorf("%w: converter %q: %v", ErrInvalidPattern, name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.named[name] = &Converter{
		name:    name,
		pattern: pattern,
		rex:     rex,
		parse:   parse,
		format:  formatString,
	}
	return nil
}

// Get returns the converter registered under name.
func (c *Converters) Get(name string) (*Converter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conv, ok := c.named[name]
	return conv, ok
}

func formatString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

var builtinConverters = []*Converter{
	{
		name:    "string",
		pattern: `[^/]+`,
		rex:     regexp.MustCompile(`^[^/]+$`),
		parse:   func(s string) (any, error) { return s, nil },
		format: func(v any) (string, error) {
			s, ok := v.(string)
			if !ok {
				return "", fmt.Errorf("%w: expected string, got %T", ErrParameterType, v)
			}
			return s, nil
		},
	},
	{
		name:    "int",
		pattern: `[0-9]+`,
		rex:     regexp.MustCompile(`^[0-9]+$`),
		parse: func(s string) (any, error) {
			return strconv.ParseInt(s, 10, 64)
		},
		format: func(v any) (string, error) {
			switch n := v.(type) {
			case int:
				return strconv.Itoa(n), nil
			case int64:
				return strconv.FormatInt(n, 10), nil
			case uint64:
				return strconv.FormatUint(n, 10), nil
			default:
				return "", fmt.Errorf("%w: expected integer, got %T", ErrParameterType, v)
			}
		},
	},
	{
		name:    "float",
		pattern: `[0-9]+(\.[0-9]+)?`,
		rex:     regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`),
		parse: func(s string) (any, error) {
			return strconv.ParseFloat(s, 64)
		},
		format: func(v any) (string, error) {
			switch f := v.(type) {
			case float64:
				return strconv.FormatFloat(f, 'f', -1, 64), nil
			case float32:
				return strconv.FormatFloat(float64(f), 'f', -1, 32), nil
			case int:
				return strconv.Itoa(f), nil
			case int64:
				return strconv.FormatInt(f, 10), nil
			default:
				return "", fmt.Errorf("%w: expected float, got %T", ErrParameterType, v)
			}
		},
	},
	{
		name:    "uuid",
		pattern: `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		rex:     regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`),
		parse: func(s string) (any, error) {
			return uuid.Parse(s)
		},
		format: func(v any) (string, error) {
			switch id := v.(type) {
			case uuid.UUID:
				return id.String(), nil
			case string:
				parsed, err := uuid.Parse(id)
				if err != nil {
					return "", fmt.Errorf("%w: %v", ErrParameterType, err)
				}
				return parsed.String(), nil
			default:
				return "", fmt.Errorf("%w: expected uuid, got %T", ErrParameterType, v)
			}
		},
	},
	{
		// Greedy tail: one or more remaining segments including slashes.
		// Only valid as the final segment of a template.
		name:    "path",
		pattern: `.+`,
		rex:     regexp.MustCompile(`(?s)^.+$`),
		parse:   func(s string) (any, error) { return s, nil },
		format: func(v any) (string, error) {
			s, ok := v.(string)
			if !ok {
				return "", fmt.Errorf("%w: expected string, got %T", ErrParameterType, v)
			}
			return s, nil
		},
	},
}
