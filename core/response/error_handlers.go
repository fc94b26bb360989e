package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nexios-labs/nexios-go/core/binder"
	"github.com/nexios-labs/nexios-go/core/handler"
	"github.com/nexios-labs/nexios-go/core/router"
)

// statusCode matches errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// Classify maps any handler error to the HTTPError that should be
// rendered, in precedence order: an HTTPError anywhere in the chain
// wins as-is; routing misses become 404/405 (a method miss carries the
// allowed set in Details); recovered panics and binder failures get
// their conventional statuses; errors exposing StatusCode keep it;
// everything else is a 500 with the cause attached.
func Classify(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var mna *router.MethodNotAllowedError
	switch {
	case errors.Is(err, router.ErrNotFound):
		return ErrNotFound

	case errors.As(err, &mna):
		return ErrMethodNotAllowed.WithDetails(map[string]any{
			"allowed": mna.Allowed,
		})

	case errors.Is(err, binder.ErrUnsupportedMediaType),
		errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMediaType.WithError(err)

	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseForm),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		return ErrBadRequest.WithError(err)
	}

	var pe router.PanicError
	if errors.As(err, &pe) {
		// The panic value and stack stay out of the response body; the
		// logging middleware already recorded them.
		return ErrInternalServerError
	}

	if sc, ok := err.(statusCode); ok {
		return ErrorFromStatus(sc.StatusCode()).WithError(err)
	}
	return ErrInternalServerError.WithError(err)
}

// ErrorHandler renders classified errors as plain text. Suitable for
// router.WithErrorHandler on muxes serving humans or curl.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := Classify(err)
	setAllowHeader(ctx.ResponseWriter(), httpErr)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders classified errors as application/json
// bodies in the HTTPError wire shape.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := Classify(err)
	setAllowHeader(ctx.ResponseWriter(), httpErr)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

// setAllowHeader emits the Allow header a 405 is required to carry.
func setAllowHeader(w http.ResponseWriter, httpErr HTTPError) {
	if httpErr.Status != http.StatusMethodNotAllowed {
		return
	}
	allowed, ok := httpErr.Details["allowed"].([]string)
	if !ok || len(allowed) == 0 {
		return
	}
	w.Header().Set("Allow", strings.Join(allowed, ", "))
}
