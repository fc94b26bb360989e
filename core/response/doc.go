// Package response provides HTTP response constructors for handlers: JSON,
// plain text and HTML bodies, redirects, file downloads, streaming, Server-Sent
// Events, and websocket upgrades. Every constructor returns a handler.Response,
// so responses compose with middleware and the router's error handling.
//
// # Basic Usage
//
//	import "github.com/nexios-labs/nexios-go/core/response"
//
//	func getUser(ctx *router.Context) handler.Response {
//		user, err := store.Find(ctx.ParamString("id"))
//		if err != nil {
//			return response.Error(response.ErrNotFound.WithMessage("user not found"))
//		}
//		return response.JSON(user)
//	}
//
// # JSON
//
//	response.JSON(user)                                 // 200 OK
//	response.JSONWithStatus(user, http.StatusCreated)   // custom status
//
// # Text, HTML, and Raw Bytes
//
//	response.String("pong")
//	response.HTML("<h1>Welcome</h1>")
//	response.Bytes(data, "application/octet-stream")
//	response.NoContent()
//	response.Status(http.StatusAccepted)
//
// # Redirects
//
// Redirect helpers cover the common status codes:
//
//	response.Redirect("/login")               // 302 Found
//	response.RedirectPermanent("/new-home")   // 301
//	response.RedirectSeeOther("/result")      // 303, POST-redirect-GET
//	response.RedirectTemporary("/retry")      // 307, preserves method
//
// # Errors
//
// Handlers propagate failures by returning response.Error; the mux routes the
// error to its configured error handler. HTTPError values carry a status code,
// a machine-readable code, and optional details:
//
//	return response.Error(response.ErrForbidden.WithMessage("quota exceeded"))
//
// Use ErrorHandler (plain text) or JSONErrorHandler as the mux error handler.
// Both classify routing misses (404/405 with an Allow header), binder
// failures (400/415), recovered panics, and StatusCode-carrying errors before
// rendering:
//
//	mux := router.NewMux(r,
//		router.WithErrorHandler(response.JSONErrorHandler[*router.Context]),
//	)
//
// # Files and Streaming
//
//	response.File("./public/report.pdf")
//	response.Download("./data/export.csv", "export.csv")
//	response.Stream(func(w io.Writer) error { ... })
//	response.StreamJSON(items)
//	response.CSV(records, "report.csv")
//
// # Server-Sent Events
//
// SSE streams values from a channel as text/event-stream, with optional event
// names, IDs, reconnect hints, and keep-alive comments:
//
//	events := make(chan any)
//	return response.SSE(events,
//		response.WithEventName("update"),
//		response.WithKeepAlive(15*time.Second),
//	)
//
// # WebSockets
//
// WebSocket upgrades the request and hands the open ws.Session to a message
// handler. For routes that need typed path parameters on the session, mount a
// ws.Router instead; this constructor suits ad-hoc endpoints on the HTTP
// router:
//
//	return response.WebSocket(func(ctx context.Context, sess *ws.Session) error {
//		for {
//			text, err := sess.ReceiveText()
//			if err != nil {
//				return err
//			}
//			if err := sess.SendText(strings.ToUpper(text)); err != nil {
//				return err
//			}
//		}
//	}, response.WithWSAllowAnyOrigin())
//
// # Decorators
//
// Decorators wrap an existing response with extra headers, cookies, or cache
// directives:
//
//	resp := response.JSON(data)
//	resp = response.WithHeaders(resp, map[string]string{"X-Version": "2"})
//	resp = response.WithCache(resp, 5*time.Minute)
package response
