// Package binder populates tagged structs from the different parts of
// an HTTP request: JSON bodies, URL-encoded and multipart forms, query
// strings, and matched path parameters.
//
// Each source has a constructor returning a Binder, and the router's
// Context exposes them as Bind/BindJSON/BindQuery/BindForm/BindPath:
//
//	type searchParams struct {
//		Term string   `query:"q"`
//		Page int      `query:"page"`
//		Tags []string `query:"tags"` // ?tags=go&tags=web, or comma separated
//	}
//
//	r.Get("/search", func(ctx *router.Context) handler.Response {
//		var p searchParams
//		if err := ctx.BindQuery(&p); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//		...
//	})
//
// # Tags and conversion
//
// Fields use the tag matching their source: `json`, `form`, `query`,
// or `path`. An untagged field binds under its lowercased name; "-"
// skips it; options after a comma are ignored. Values convert to
// string, all int/uint widths, floats, and bool (strconv forms plus
// on/off/yes/no and the bare flag). Pointers allocate on demand for
// optional fields, and slices collect repeated keys as well as
// comma-separated values.
//
// One struct can draw from several sources; bind them in sequence:
//
//	type updateProfile struct {
//		UserID int64                 `path:"id"`
//		Name   string                `form:"name"`
//		Avatar *multipart.FileHeader `file:"avatar"`
//	}
//
//	r.Post("/users/{id:int}/profile", func(ctx *router.Context) handler.Response {
//		var req updateProfile
//		if err := ctx.BindPath(&req); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//		if err := ctx.BindForm(&req); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//		...
//	})
//
// # JSON
//
// JSON binding is strict: the Content-Type must be application/json
// (charset parameters are fine), bodies are capped at
// DefaultMaxJSONSize, unknown fields and trailing data are rejected,
// and an empty body is an error. Decoded strings are scrubbed of
// control characters, recursively through nested structs, slices, and
// string-valued maps.
//
// # Forms and uploads
//
// Form binding accepts application/x-www-form-urlencoded and
// multipart/form-data, the latter with its boundary validated and
// parsing bounded by DefaultMaxMemory. File parts bind through the
// `file` tag to *multipart.FileHeader or a slice of them; filenames
// are reduced to their base name so a crafted "../../etc/passwd"
// upload cannot smuggle a path.
//
// # Errors
//
// Failures wrap a small set of sentinels so callers can classify with
// errors.Is: ErrMissingContentType and ErrUnsupportedMediaType for
// content negotiation, and ErrFailedToParseJSON/Form/Query/Path for
// malformed input. The response package maps these onto 415 and 400
// replies. ErrBinderNotApplicable is available for callers that try
// several binders in turn and want "not for me" distinguishable from
// "broken".
package binder
