package crud

import (
	"errors"

	"github.com/mendelcore/go-admin-client/interfaces"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
)

// Every backend response is an envelope: {"data": ...} on success, {"error": "message"} on failure.

var errNoData = errors.New(`response did not contain a "data" property`)

// RecordPtr is the constraint for a pointer to a record type that can be decoded from JSON.
type RecordPtr[Rec any] interface {
	*Rec
	jreader.Readable
}

// readEnvelope calls readData with the reader positioned at the value of "data", and reports whether
// that property was present.
func readEnvelope(body []byte, readData func(r *jreader.Reader)) (bool, error) {
	r := jreader.NewReader(body)
	found := false
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) == "data" {
			found = true
			readData(&r)
		}
	}
	return found, r.Error()
}

func parseRecordEnvelope[Rec any, PRec RecordPtr[Rec]](resp Response) (*Rec, error) {
	var rec Rec
	found, err := readEnvelope(resp.Body, func(r *jreader.Reader) {
		PRec(&rec).ReadFromJSONReader(r)
	})
	if err == nil && !found {
		err = errNoData
	}
	if err != nil {
		return nil, interfaces.MalformedResponseError{URL: resp.URL, InnerError: err}
	}
	return &rec, nil
}

// A null "data" array is treated as an empty list.
func parseListEnvelope[Rec any, PRec RecordPtr[Rec]](resp Response) ([]Rec, error) {
	list := make([]Rec, 0)
	found, err := readEnvelope(resp.Body, func(r *jreader.Reader) {
		for arr := r.ArrayOrNull(); arr.Next(); {
			var rec Rec
			PRec(&rec).ReadFromJSONReader(r)
			list = append(list, rec)
		}
	})
	if err == nil && !found {
		err = errNoData
	}
	if err != nil {
		return nil, interfaces.MalformedResponseError{URL: resp.URL, InnerError: err}
	}
	return list, nil
}

// errorMessageFromBody returns the envelope's "error" string, or UnknownServerErrorMessage if the body
// is not an envelope or has no non-empty error message.
func errorMessageFromBody(body []byte) string {
	r := jreader.NewReader(body)
	message := ""
	for obj := r.ObjectOrNull(); obj.Next(); {
		if string(obj.Name()) == "error" {
			message, _ = r.StringOrNull()
		}
	}
	if r.Error() != nil || message == "" {
		return interfaces.UnknownServerErrorMessage
	}
	return message
}
