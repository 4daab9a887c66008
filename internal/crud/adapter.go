package crud

import (
	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Adapter binds the generic operations to one entity kind's path and record types.
type Adapter[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]] struct {
	Kind     mdmodel.Kind
	Create   *CreateOperation[Req, Rec, PRec]
	FetchAll *FetchAllOperation[Rec, PRec]
	FetchOne *FetchOneOperation[Rec, PRec]
}

// NewAdapter creates the operations for a kind. Log output is prefixed with the kind's display name.
func NewAdapter[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]](
	kind mdmodel.Kind,
	requester *Requester,
	loggers ldlog.Loggers,
) *Adapter[Req, Rec, PRec] {
	loggers.SetPrefix(kind.DisplayName + ":")
	return &Adapter[Req, Rec, PRec]{
		Kind:     kind,
		Create:   NewCreateOperation[Req, Rec, PRec](kind, requester, loggers),
		FetchAll: NewFetchAllOperation[Rec, PRec](kind, requester, loggers),
		FetchOne: NewFetchOneOperation[Rec, PRec](kind, requester, loggers),
	}
}
