package sharedtest

import (
	"bytes"
	"io"
	"net/http"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
)

// RecordingBackend wraps a handler that reads request bodies, such as mdservices.Backend, and records
// every request on the returned channel. Unlike httphelpers.RecordingHandler it gives the wrapped
// handler its own copy of the body.
func RecordingBackend(handler http.Handler) (http.Handler, <-chan httphelpers.HTTPRequestInfo) {
	requestsCh := make(chan httphelpers.HTTPRequestInfo, 1000)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		requestsCh <- httphelpers.HTTPRequestInfo{Request: r, Body: body}
		handler.ServeHTTP(w, r)
	}), requestsCh
}
