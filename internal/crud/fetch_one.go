package crud

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

var errEmptyID = errors.New("record id must not be empty")

// FetchOneOperation fetches single records of one entity kind by id. It does not touch the cached list.
type FetchOneOperation[Rec mdmodel.Record, PRec RecordPtr[Rec]] struct {
	kind      mdmodel.Kind
	requester *Requester
	loggers   ldlog.Loggers
	state     interfaces.RequestState[*Rec]
	lock      sync.RWMutex
}

// NewFetchOneOperation creates a FetchOneOperation for the given kind.
func NewFetchOneOperation[Rec mdmodel.Record, PRec RecordPtr[Rec]](
	kind mdmodel.Kind,
	requester *Requester,
	loggers ldlog.Loggers,
) *FetchOneOperation[Rec, PRec] {
	return &FetchOneOperation[Rec, PRec]{kind: kind, requester: requester, loggers: loggers}
}

// Run makes one GET of <path>/<id>.
func (o *FetchOneOperation[Rec, PRec]) Run(ctx context.Context, id string) (rec *Rec, err error) {
	if id == "" {
		return nil, errEmptyID
	}
	o.setState(interfaces.InFlightState[*Rec]())
	defer func() {
		if err != nil {
			o.loggers.Errorf("Failed to fetch item %q from %s: %s", id, o.requester.URL(o.kind.Path), err)
			o.setState(interfaces.FailedState[*Rec](err.Error()))
			return
		}
		o.setState(interfaces.SucceededState(rec))
	}()

	resp, err := o.requester.Get(ctx, o.kind.Name, OperationFetchOne, o.kind.Path+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return parseRecordEnvelope[Rec, PRec](resp)
}

// State returns the state of the most recent fetch.
func (o *FetchOneOperation[Rec, PRec]) State() interfaces.RequestState[*Rec] {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.state
}

func (o *FetchOneOperation[Rec, PRec]) setState(state interfaces.RequestState[*Rec]) {
	o.lock.Lock()
	o.state = state
	o.lock.Unlock()
}
