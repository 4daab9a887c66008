package crud

import (
	"context"
	"sync"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal"
	"github.com/mendelcore/go-admin-client/mdmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"
)

// FetchAllOperation fetches the full list of one entity kind and owns the cached copy of that list.
//
// The list is absent until the first successful fetch or Append, and becomes absent again whenever a
// fetch fails. Every change to the list increments its version and is broadcast to list listeners.
type FetchAllOperation[Rec mdmodel.Record, PRec RecordPtr[Rec]] struct {
	kind        mdmodel.Kind
	requester   *Requester
	loggers     ldlog.Loggers
	group       singleflight.Group
	broadcaster *internal.Broadcaster[interfaces.ListChange]
	state       interfaces.RequestState[[]Rec]
	list        []Rec
	present     bool
	version     uint64
	lock        sync.RWMutex
}

// NewFetchAllOperation creates a FetchAllOperation for the given kind.
func NewFetchAllOperation[Rec mdmodel.Record, PRec RecordPtr[Rec]](
	kind mdmodel.Kind,
	requester *Requester,
	loggers ldlog.Loggers,
) *FetchAllOperation[Rec, PRec] {
	return &FetchAllOperation[Rec, PRec]{
		kind:        kind,
		requester:   requester,
		loggers:     loggers,
		broadcaster: internal.NewBroadcaster[interfaces.ListChange](),
	}
}

// Run makes one GET of the kind's path and replaces the cached list with the result.
//
// Concurrent calls share a single request, and all of them receive its result; the context of the
// call that started the request governs it. On failure the list becomes absent and the state holds
// the error message.
func (o *FetchAllOperation[Rec, PRec]) Run(ctx context.Context) ([]Rec, error) {
	result, err, _ := o.group.Do("fetchAll:"+o.kind.Path, func() (interface{}, error) {
		return o.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(result.([]Rec)), nil
}

func (o *FetchAllOperation[Rec, PRec]) fetch(ctx context.Context) (list []Rec, err error) {
	o.lock.Lock()
	o.state = interfaces.InFlightState[[]Rec]()
	o.lock.Unlock()

	defer func() {
		var change interfaces.ListChange
		o.lock.Lock()
		o.version++
		if err != nil {
			o.state = interfaces.FailedState[[]Rec](err.Error())
			o.list, o.present = nil, false
			change = o.changeLocked(interfaces.ListReset)
		} else {
			o.state = interfaces.SucceededState(slices.Clone(list))
			o.list, o.present = slices.Clone(list), true
			change = o.changeLocked(interfaces.ListReplaced)
		}
		o.lock.Unlock()
		if err != nil {
			o.loggers.Errorf("Failed to fetch items from %s: %s", o.requester.URL(o.kind.Path), err)
		}
		o.broadcaster.Broadcast(change)
	}()

	resp, err := o.requester.Get(ctx, o.kind.Name, OperationFetchAll, o.kind.Path)
	if err != nil {
		return nil, err
	}
	return parseListEnvelope[Rec, PRec](resp)
}

// Append adds one record to the end of the list, creating the list if it was absent.
func (o *FetchAllOperation[Rec, PRec]) Append(rec Rec) {
	o.lock.Lock()
	o.list = append(o.list, rec)
	o.present = true
	o.version++
	change := o.changeLocked(interfaces.ListAppended)
	o.lock.Unlock()
	o.broadcaster.Broadcast(change)
}

// List returns a copy of the cached list. The second return value is false if the list is absent.
func (o *FetchAllOperation[Rec, PRec]) List() ([]Rec, bool) {
	list, present, _ := o.Snapshot()
	return list, present
}

// Snapshot returns a copy of the cached list together with its version.
func (o *FetchAllOperation[Rec, PRec]) Snapshot() (list []Rec, present bool, version uint64) {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return slices.Clone(o.list), o.present, o.version
}

// Version returns the number of changes made to the list so far.
func (o *FetchAllOperation[Rec, PRec]) Version() uint64 {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.version
}

// State returns the state of the most recent fetch.
func (o *FetchAllOperation[Rec, PRec]) State() interfaces.RequestState[[]Rec] {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.state
}

// Notify broadcasts a change that did not modify the list, such as an invalidation.
func (o *FetchAllOperation[Rec, PRec]) Notify(reason interfaces.ListChangeReason) {
	o.lock.RLock()
	change := o.changeLocked(reason)
	o.lock.RUnlock()
	o.broadcaster.Broadcast(change)
}

// AddListener subscribes to list changes.
func (o *FetchAllOperation[Rec, PRec]) AddListener() <-chan interfaces.ListChange {
	return o.broadcaster.AddListener()
}

// RemoveListener unsubscribes and closes a channel returned by AddListener.
func (o *FetchAllOperation[Rec, PRec]) RemoveListener(ch <-chan interfaces.ListChange) {
	o.broadcaster.RemoveListener(ch)
}

// Close closes all listener channels.
func (o *FetchAllOperation[Rec, PRec]) Close() {
	o.broadcaster.Close()
}

func (o *FetchAllOperation[Rec, PRec]) changeLocked(reason interfaces.ListChangeReason) interfaces.ListChange {
	return interfaces.ListChange{
		Kind:    o.kind.Name,
		Reason:  reason,
		Present: o.present,
		Size:    len(o.list),
		Version: o.version,
	}
}
