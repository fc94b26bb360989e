package response

import (
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// Render executes resp against the context's writer. Rendering errors
// fall back to a plain 500; handlers that want structured errors return
// Error(...) and let the mux's error handler classify it instead.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// body writes a response with the given content type and status. A zero
// status means 200 and an empty body skips the Write call.
func body(content []byte, contentType string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if len(content) == 0 {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

// String renders content as text/plain with 200 OK.
func String(content string) handler.Response {
	return body([]byte(content), "text/plain; charset=utf-8", http.StatusOK)
}

// StringWithStatus renders content as text/plain with the given status.
func StringWithStatus(content string, status int) handler.Response {
	return body([]byte(content), "text/plain; charset=utf-8", status)
}

// HTML renders content as text/html with 200 OK.
func HTML(content string) handler.Response {
	return body([]byte(content), "text/html; charset=utf-8", http.StatusOK)
}

// HTMLWithStatus renders content as text/html with the given status.
func HTMLWithStatus(content string, status int) handler.Response {
	return body([]byte(content), "text/html; charset=utf-8", status)
}

// Bytes renders raw content under the given content type with 200 OK.
func Bytes(content []byte, contentType string) handler.Response {
	return body(content, contentType, http.StatusOK)
}

// BytesWithStatus renders raw content with the given content type and status.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return body(content, contentType, status)
}

// NoContent renders an empty 204 response.
func NoContent() handler.Response {
	return body(nil, "", http.StatusNoContent)
}

// Status renders an empty response with the given status code.
func Status(code int) handler.Response {
	return body(nil, "", code)
}
