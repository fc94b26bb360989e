package binder

import "net/http"

// Query binds URL query parameters to struct fields tagged `query`.
// An untagged field uses its lowercased name; `query:"-"` skips it.
//
// Scalars, pointers (left nil when the parameter is absent), and
// slices are supported. A slice field accepts both repeated keys and a
// single comma-separated value:
//
//	type SearchRequest struct {
//		Query string   `query:"q"`
//		Page  int      `query:"page"`
//		Tags  []string `query:"tags"`   // ?tags=go&tags=web or ?tags=go,web
//		Draft *bool    `query:"draft"`  // optional
//		Debug string   `query:"-"`
//	}
//
// Conversion failures wrap ErrFailedToParseQuery.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return decodeInto(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
