package mdmodel

import (
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Record is implemented by every server-assigned record type.
type Record interface {
	// GetID returns the server-assigned identifier.
	GetID() string
}

// NamedRecord is a Record that has a display name.
type NamedRecord interface {
	Record
	// GetName returns the record's display name.
	GetName() string
}

// TimestampFormat is the layout used for created_at/updated_at.
const TimestampFormat = time.RFC3339Nano

// The backend models allow null in most columns, so string properties are read leniently.
func readString(r *jreader.Reader) string {
	s, _ := r.StringOrNull()
	return s
}

func readTimestamp(r *jreader.Reader) time.Time {
	s, nonNull := r.StringOrNull()
	if !nonNull || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(TimestampFormat, s)
	if err != nil {
		r.AddError(err)
		return time.Time{}
	}
	return t
}

func writeTimestamps(obj *jwriter.ObjectState, createdAt, updatedAt time.Time) {
	obj.Maybe("created_at", !createdAt.IsZero()).String(createdAt.Format(TimestampFormat))
	obj.Maybe("updated_at", !updatedAt.IsZero()).String(updatedAt.Format(TimestampFormat))
}

// An uninitialized map is sent as {} rather than null; the backend stores these columns as JSON objects.
func writeValueMap(w *jwriter.Writer, m ldvalue.ValueMap) {
	if m.Count() == 0 {
		obj := w.Object()
		obj.End()
		return
	}
	m.WriteToJSONWriter(w)
}
