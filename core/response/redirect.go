package response

import (
	"net/http"

	"github.com/nexios-labs/nexios-go/core/handler"
)

// redirect delegates to http.Redirect, which sets Location and writes
// a small HTML body for GET requests.
func redirect(url string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, status)
		return nil
	}
}

// Redirect renders a 302 Found, the default for temporary redirects.
func Redirect(url string) handler.Response {
	return redirect(url, http.StatusFound)
}

// RedirectPermanent renders a 301 Moved Permanently.
func RedirectPermanent(url string) handler.Response {
	return redirect(url, http.StatusMovedPermanently)
}

// RedirectSeeOther renders a 303 See Other, the POST-redirect-GET
// status: the client follows with a GET regardless of the original
// method.
func RedirectSeeOther(url string) handler.Response {
	return redirect(url, http.StatusSeeOther)
}

// RedirectTemporary renders a 307 Temporary Redirect, which requires
// the client to repeat the original method on the new URL.
func RedirectTemporary(url string) handler.Response {
	return redirect(url, http.StatusTemporaryRedirect)
}

// RedirectPermanentPreserve renders a 308 Permanent Redirect, the
// method-preserving counterpart of 301.
func RedirectPermanentPreserve(url string) handler.Response {
	return redirect(url, http.StatusPermanentRedirect)
}

// RedirectWithStatus renders a redirect with an explicit 3xx status.
// Statuses outside the 3xx range fall back to 302.
func RedirectWithStatus(url string, status int) handler.Response {
	if status < 300 || status >= 400 {
		status = http.StatusFound
	}
	return redirect(url, status)
}
