package router

import (
	"fmt"
	"strings"
)

// URLFor re-expands the named route's pattern into a concrete path,
// substituting each parameter segment with the converter-validated
// value from params. Unlike registration errors these are recoverable
// and returned: ErrUnknownRouteName when no route carries the name,
// ErrMissingParameter when a required segment value is absent,
// ErrParameterType when a value fails its converter, and
// ErrNonReversible for routes containing a wildcard segment, which has
// no bound value to substitute. Surplus entries in params are ignored.
func (r *Router[C]) URLFor(name string, params map[string]any) (string, error) {
	r.Resolve()

	rr, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRouteName, name)
	}

	segs := rr.pattern.segments
	if len(segs) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, seg := range segs {
		b.WriteByte('/')
		switch seg.kind {
		case segLiteral:
			b.WriteString(seg.literal)

		case segWildcard:
			return "", fmt.Errorf("%w: %q", ErrNonReversible, name)

		case segParam, segTail:
			v, ok := params[seg.name]
			if !ok {
				return "", fmt.Errorf("%w: %q for route %q", ErrMissingParameter, seg.name, name)
			}
			text, err := seg.conv.Format(v)
			if err != nil {
				return "", fmt.Errorf("parameter %q for route %q: %w", seg.name, name, err)
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}
