package binder

import "errors"

// Sentinel errors returned by the binders. Every failure wraps one of
// these, so callers classify with errors.Is and pick a status code
// without inspecting messages.
var (
	// ErrMissingContentType is returned when a body binder runs against
	// a request that carries no Content-Type header.
	ErrMissingContentType = errors.New("missing content type")

	// ErrUnsupportedMediaType is returned when the Content-Type names a
	// media type the binder does not handle.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON covers malformed JSON, unknown fields,
	// oversized bodies, and trailing data after the document.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrFailedToParseForm covers malformed URL-encoded or multipart
	// payloads, including bad boundaries and conversion failures.
	ErrFailedToParseForm = errors.New("failed to parse form data")

	// ErrFailedToParseQuery covers conversion failures on query
	// string parameters.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParsePath covers conversion failures on matched path
	// segments.
	ErrFailedToParsePath = errors.New("failed to parse path parameters")

	// ErrBinderNotApplicable signals the request shape does not match
	// the binder at all, e.g. a bodyless method handed to Form.
	ErrBinderNotApplicable = errors.New("binder not applicable for this request")
)
