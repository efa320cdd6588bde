package apitest

import "net/http"

// Transport returns an http.RoundTripper that dispatches requests directly
// into the fixture's Fiber app, no listener involved.
func (s *Server) Transport() http.RoundTripper {
	return roundTripper{app: s}
}

type roundTripper struct {
	app *Server
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// -1 disables Fiber's test timeout; the client's own timeout still applies.
	return rt.app.app.Test(req, -1)
}
