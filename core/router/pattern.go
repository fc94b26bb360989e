package router

import (
	"fmt"
	"strings"
)

type segmentKind uint8

const (
	segLiteral  segmentKind = iota // /users
	segParam                       // /{id} or /{id:int}
	segWildcard                    // /* (exactly one arbitrary segment)
	segTail                        // /{rest:path} (greedy, final only)
)

// segment is one element of a compiled pattern.
type segment struct {
	kind    segmentKind
	literal string
	name    string
	conv    *Converter
}

// Pattern is the compiled representation of a route template, used for
// both matching and URL reversal. Patterns are immutable once compiled
// and safe for concurrent use.
type Pattern struct {
	raw      string
	segments []segment
	params   map[string]*Converter
}

// defaultConverters backs patterns compiled without an explicit registry.
var defaultConverters = NewConverters()

// CompilePattern compiles a route template into a Pattern. The template
// uses literal segments verbatim, {name} for an untyped parameter
// (string converter, never matches a slash), {name:converter} for a
// typed one, * for exactly one arbitrary segment, and a final
// {name:path} to consume the remaining segments including slashes.
// A nil registry selects the built-in converters.
func CompilePattern(template string, convs *Converters) (*Pattern, error) {
	if convs == nil {
		convs = defaultConverters
	}
	if len(template) == 0 || template[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, template)
	}

	p := &Pattern{
		raw:    template,
		params: make(map[string]*Converter),
	}
	if template == "/" {
		return p, nil
	}

	parts := strings.Split(template[1:], "/")
	for i, part := range parts {
		last := i == len(parts)-1

		switch {
		case part == "*":
			p.segments = append(p.segments, segment{kind: segWildcard})

		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name, convName, _ := strings.Cut(part[1:len(part)-1], ":")
			if convName == "" {
				convName = "string"
			}
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidPattern, template)
			}
			conv, ok := convs.Get(convName)
			if !ok {
				return nil, fmt.Errorf("%w: %q in %q", ErrUnknownConverter, convName, template)
			}
			if _, dup := p.params[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, template)
			}
			p.params[name] = conv

			kind := segParam
			if convName == "path" {
				if !last {
					return nil, fmt.Errorf("%w: %q in %q", ErrGreedyPosition, name, template)
				}
				kind = segTail
			}
			p.segments = append(p.segments, segment{kind: kind, name: name, conv: conv})

		case strings.ContainsAny(part, "{}*"):
			return nil, fmt.Errorf("%w: malformed segment %q in %q", ErrInvalidPattern, part, template)

		default:
			p.segments = append(p.segments, segment{kind: segLiteral, literal: part})
		}
	}

	return p, nil
}

// Raw returns the original template string.
func (p *Pattern) Raw() string { return p.raw }

// ParamNames returns the parameter names the pattern binds, in segment order.
func (p *Pattern) ParamNames() []string {
	names := make([]string, 0, len(p.params))
	for _, seg := range p.segments {
		if seg.kind == segParam || seg.kind == segTail {
			names = append(names, seg.name)
		}
	}
	return names
}

// Match performs segment-by-segment structural matching of path against
// the pattern. On success it returns the fully typed parameter values.
func (p *Pattern) Match(path string) (map[string]any, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}

	segs := splitPath(path)
	var params map[string]any

	for i, seg := range p.segments {
		if seg.kind == segTail {
			// Consume the remainder, slashes included. One-or-more
			// segments: an empty remainder does not match.
			rest := strings.Join(segs[i:], "/")
			if rest == "" {
				return nil, false
			}
			v, ok := seg.conv.Parse(rest)
			if !ok {
				return nil, false
			}
			if params == nil {
				params = make(map[string]any, len(p.params))
			}
			params[seg.name] = v
			return params, true
		}

		if i >= len(segs) {
			return nil, false
		}

		switch seg.kind {
		case segLiteral:
			if segs[i] != seg.literal {
				return nil, false
			}
		case segWildcard:
			if segs[i] == "" {
				return nil, false
			}
		case segParam:
			v, ok := seg.conv.Parse(segs[i])
			if !ok {
				return nil, false
			}
			if params == nil {
				params = make(map[string]any, len(p.params))
			}
			params[seg.name] = v
		}
	}

	if len(segs) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// Signature is the literal-equivalent form of the pattern: parameter
// names are erased, converters and structure kept. Two routes collide
// when their signatures and methods overlap. The socket router keys
// its duplicate detection on it as well.
func (p *Pattern) Signature() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.kind {
		case segLiteral:
			b.WriteString(seg.literal)
		case segParam:
			b.WriteString("{" + seg.conv.Name() + "}")
		case segWildcard:
			b.WriteByte('*')
		case segTail:
			b.WriteString("{path}")
		}
	}
	return b.String()
}

// splitPath splits a rooted path into its segments. The root path has
// no segments; a trailing slash yields a final empty segment, so
// "/users" and "/users/" are distinct.
func splitPath(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(path[1:], "/")
}

// JoinPattern concatenates a mount prefix and a route template into a
// fully-qualified template.
func JoinPattern(prefix, template string) string {
	if prefix == "" || prefix == "/" {
		return template
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if template == "/" {
		return prefix
	}
	return prefix + template
}
