package response

import (
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// Error defers rendering to the mux's error handler: the returned
// response writes nothing and hands err back for classification.
// Handlers use it to surface HTTPErrors and wrapped causes:
//
//	return response.Error(response.ErrNotFound.WithMessage("user not found"))
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
