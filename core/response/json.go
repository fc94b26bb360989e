package response

import (
	"encoding/json"
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// JSON renders v as application/json with 200 OK. Encoding streams
// straight to the writer rather than through an intermediate buffer.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus renders v as application/json with the given status.
// A zero status resolves to 200, or 204 when v is nil. Statuses that
// forbid a body (204, 304) suppress encoding entirely.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}
		w.WriteHeader(status)

		if status == http.StatusNoContent || status == http.StatusNotModified {
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}
