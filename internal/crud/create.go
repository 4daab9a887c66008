package crud

import (
	"context"
	"sync"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// CreateOperation posts new records for one entity kind and tracks the state of the last create.
type CreateOperation[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]] struct {
	kind      mdmodel.Kind
	requester *Requester
	loggers   ldlog.Loggers
	state     interfaces.RequestState[*Rec]
	lock      sync.RWMutex
}

// NewCreateOperation creates a CreateOperation for the given kind.
func NewCreateOperation[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]](
	kind mdmodel.Kind,
	requester *Requester,
	loggers ldlog.Loggers,
) *CreateOperation[Req, Rec, PRec] {
	return &CreateOperation[Req, Rec, PRec]{kind: kind, requester: requester, loggers: loggers}
}

// Run makes exactly one POST of the request to the kind's path.
//
// The state is in flight while the request is pending. On success the state holds the created record,
// which is also returned. On any failure the state holds the error message, and nil is returned along
// with the error.
func (o *CreateOperation[Req, Rec, PRec]) Run(ctx context.Context, req Req) (rec *Rec, err error) {
	o.setState(interfaces.InFlightState[*Rec]())
	defer func() {
		if err == nil && rec == nil {
			err = errNoData
		}
		if err != nil {
			o.loggers.Errorf("Failed to create item at %s: %s", o.requester.URL(o.kind.Path), err)
			o.setState(interfaces.FailedState[*Rec](err.Error()))
			rec = nil
			return
		}
		o.setState(interfaces.SucceededState(rec))
	}()

	w := jwriter.NewWriter()
	req.WriteToJSONWriter(&w)
	if err = w.Error(); err != nil {
		return nil, err
	}
	resp, err := o.requester.Post(ctx, o.kind.Name, o.kind.Path, w.Bytes())
	if err != nil {
		return nil, err
	}
	return parseRecordEnvelope[Rec, PRec](resp)
}

// State returns the state of the most recent create.
func (o *CreateOperation[Req, Rec, PRec]) State() interfaces.RequestState[*Rec] {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.state
}

// ClearError returns a failed state to idle. Any other state is left alone.
func (o *CreateOperation[Req, Rec, PRec]) ClearError() {
	o.lock.Lock()
	o.state = o.state.ClearError()
	o.lock.Unlock()
}

func (o *CreateOperation[Req, Rec, PRec]) setState(state interfaces.RequestState[*Rec]) {
	o.lock.Lock()
	o.state = state
	o.lock.Unlock()
}
