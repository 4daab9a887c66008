package mdservices

import (
	"net/http"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// DataEnvelope returns the JSON {"data": value}.
func DataEnvelope(value jwriter.Writable) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	value.WriteToJSONWriter(obj.Name("data"))
	obj.End()
	return w.Bytes()
}

// ListEnvelope returns the JSON {"data": [values...]}.
func ListEnvelope[V jwriter.Writable](values ...V) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	arr := obj.Name("data").Array()
	for _, v := range values {
		v.WriteToJSONWriter(&w)
	}
	arr.End()
	obj.End()
	return w.Bytes()
}

// ErrorEnvelope returns the JSON {"error": message}.
func ErrorEnvelope(message string) []byte {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("error").String(message)
	obj.End()
	return w.Bytes()
}

// RecordHandler returns a handler that responds with status 200 and {"data": record}.
func RecordHandler(record jwriter.Writable) http.Handler {
	return envelopeHandler(http.StatusOK, DataEnvelope(record))
}

// ListHandler returns a handler that responds with status 200 and {"data": [records...]}.
func ListHandler[V jwriter.Writable](records ...V) http.Handler {
	return envelopeHandler(http.StatusOK, ListEnvelope(records...))
}

// ErrorHandler returns a handler that responds with the given status and {"error": message}.
func ErrorHandler(status int, message string) http.Handler {
	return envelopeHandler(status, ErrorEnvelope(message))
}

func envelopeHandler(status int, body []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	})
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
