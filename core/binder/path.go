package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder function using the provided extractor.
// The extractor function is called for each struct field to get its path parameter value.
//
// It supports struct tags for custom parameter names:
//   - `path:"name"` - binds to path parameter "name"
//   - `path:"-"` - skips the field
//
// Supported types:
//   - Basic types: string, int, int64, uint, uint64, float32, float64, bool
//   - Pointers for optional fields
//
// The router's Context wires an extractor automatically via BindPath; use
// this function directly when binding outside a routed handler:
//
//	type ProfileRequest struct {
//		UserID   int64  `path:"id"`
//		Username string `path:"username"`
//		Name     string `form:"name"`     // From form data
//		Expand   bool   `query:"expand"`  // From query string
//	}
//
//	r.Get("/users/{id:int}/profile/{username}", func(ctx *router.Context) handler.Response {
//		var req ProfileRequest
//		if err := ctx.BindPath(&req); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//		if err := ctx.Bind(&req, binder.Query(), binder.Form()); err != nil {
//			return response.Error(response.ErrBadRequest.WithError(err))
//		}
//
//		// req.UserID and req.Username are populated from path
//		// req.Name is populated from form data
//		// req.Expand is populated from query string
//		return response.JSON(req)
//	})
//
// A custom extractor adapts any parameter source:
//
//	headerExtractor := func(r *http.Request, fieldName string) string {
//		return r.Header.Get("X-Param-" + fieldName)
//	}
//	bind := binder.Path(headerExtractor)
func Path(extractor func(r *http.Request, fieldName string) string) Binder {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv, err := structValue(v, ErrFailedToParsePath)
		if err != nil {
			return err
		}

		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}

			paramName, skip := fieldKey(rt.Field(i), "path")
			if skip {
				continue
			}

			value := extractor(r, paramName)
			if value == "" {
				// A missing parameter leaves the field at its zero value.
				continue
			}

			if err := assign(field, []string{value}); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrFailedToParsePath, rt.Field(i).Name, err)
			}
		}
		return nil
	}
}
