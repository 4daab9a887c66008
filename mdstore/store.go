package mdstore

import (
	"context"
	"sync"
	"time"

	"github.com/mendelcore/go-admin-client/interfaces"
	"github.com/mendelcore/go-admin-client/internal/crud"
	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/ccache"
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"golang.org/x/sync/singleflight"
)

// Cache names passed to MetricsRecorder.RecordCacheHit.
const (
	ListCache   = "list"
	RecordCache = "record"
)

// RecordPtr is the constraint for a pointer to a record type that can be decoded from JSON.
type RecordPtr[Rec any] interface {
	*Rec
	jreader.Readable
}

// Options are the shared components a store is built with.
type Options struct {
	// Freshness decides whether FetchIfNeeded can use the cached list. Required.
	Freshness subsystems.FreshnessPolicy
	// RecordCache configures the cache used by Get. A zero Size disables it.
	RecordCache subsystems.RecordCacheConfiguration
}

// Store is the store for one entity kind. All methods are safe for concurrent use.
//
// Creates on one store are serialized; concurrent fetches of the full list share a single request, as do
// concurrent Get calls for the same id.
type Store[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]] struct {
	kind       mdmodel.Kind
	adapter    *crud.Adapter[Req, Rec, PRec]
	freshness  subsystems.FreshnessPolicy
	metrics    subsystems.MetricsRecorder
	loggers    ldlog.Loggers
	formActive bool
	createLock sync.Mutex
	records    *ccache.Cache
	recordTTL  time.Duration
	gets       singleflight.Group
	lock       sync.RWMutex
}

// NewStore creates a store for the given kind.
func NewStore[Req jwriter.Writable, Rec mdmodel.Record, PRec RecordPtr[Rec]](
	clientContext subsystems.ClientContext,
	kind mdmodel.Kind,
	options Options,
) *Store[Req, Rec, PRec] {
	loggers := clientContext.GetLogging().Loggers
	requester := crud.NewRequester(clientContext, nil)
	s := &Store[Req, Rec, PRec]{
		kind:      kind,
		adapter:   crud.NewAdapter[Req, Rec, PRec](kind, requester, loggers),
		freshness: options.Freshness,
		metrics:   clientContext.GetMetrics(),
		loggers:   loggers,
		recordTTL: options.RecordCache.TTL,
	}
	s.loggers.SetPrefix(kind.DisplayName + ":")
	if options.RecordCache.Size > 0 {
		s.records = ccache.New(ccache.Configure().MaxSize(int64(options.RecordCache.Size)))
	}
	return s
}

// Kind returns the entity kind of this store.
func (s *Store[Req, Rec, PRec]) Kind() mdmodel.Kind {
	return s.kind
}

// ShowForm marks the creation form as open.
func (s *Store[Req, Rec, PRec]) ShowForm() {
	s.lock.Lock()
	s.formActive = true
	s.lock.Unlock()
}

// ExitForm marks the creation form as closed and clears any create error.
func (s *Store[Req, Rec, PRec]) ExitForm() {
	s.lock.Lock()
	s.formActive = false
	s.adapter.Create.ClearError()
	s.lock.Unlock()
}

// FormActive reports whether the creation form is open.
func (s *Store[Req, Rec, PRec]) FormActive() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.formActive
}

// FormTitle returns the title of the creation form, such as "Creating a Plant".
func (s *Store[Req, Rec, PRec]) FormTitle() string {
	return s.kind.FormTitle()
}

// FormID returns the DOM id of the creation form, such as "plant-form".
func (s *Store[Req, Rec, PRec]) FormID() string {
	return s.kind.FormID
}

// SubmitNew creates a record. On success the form is closed, its error cleared, and the new record is
// appended to the cached list (which is created if it was absent). On failure the form stays open, the
// create state holds the error message, and the list is not touched.
//
// The return values are those of the create request: the record, or nil and an error.
func (s *Store[Req, Rec, PRec]) SubmitNew(ctx context.Context, req Req) (*Rec, error) {
	s.createLock.Lock()
	defer s.createLock.Unlock()

	rec, err := s.adapter.Create.Run(ctx, req)
	if rec == nil {
		return nil, err
	}
	s.ExitForm()
	s.adapter.FetchAll.Append(*rec)
	s.safeCacheSet((*rec).GetID(), *rec)
	ret := *rec
	return &ret, err
}

// FetchIfNeeded fetches the full list unless force is false and the cached list is present and fresh
// according to the client's freshness policy. With the default policy, a present non-empty list is
// always fresh.
func (s *Store[Req, Rec, PRec]) FetchIfNeeded(ctx context.Context, force bool) error {
	if !force {
		list, present := s.adapter.FetchAll.List()
		if present && s.freshness.IsFresh(s.kind.Name, len(list)) {
			if s.loggers.IsDebugEnabled() {
				s.loggers.Debugf("Using cached %s list.", s.kind.DisplayName)
			}
			s.metrics.RecordCacheHit(s.kind.Name, ListCache)
			return nil
		}
	}
	if _, err := s.adapter.FetchAll.Run(ctx); err != nil {
		return err
	}
	s.freshness.ListFetched(s.kind.Name)
	return nil
}

// List returns a copy of the cached list. The second return value is false if the list is absent,
// which is the case before the first successful fetch or create and after a failed fetch.
func (s *Store[Req, Rec, PRec]) List() ([]Rec, bool) {
	return s.adapter.FetchAll.List()
}

// CreateState returns the state of the most recent create.
func (s *Store[Req, Rec, PRec]) CreateState() interfaces.RequestState[*Rec] {
	return s.adapter.Create.State()
}

// FetchState returns the state of the most recent fetch of the full list.
func (s *Store[Req, Rec, PRec]) FetchState() interfaces.RequestState[[]Rec] {
	return s.adapter.FetchAll.State()
}

// GetState returns the state of the most recent Get that made a request.
func (s *Store[Req, Rec, PRec]) GetState() interfaces.RequestState[*Rec] {
	return s.adapter.FetchOne.State()
}

// Invalidate marks the cached list and all individually cached records as stale, so the next
// FetchIfNeeded or Get goes to the network. The cached list itself is kept until that fetch completes.
func (s *Store[Req, Rec, PRec]) Invalidate() {
	s.freshness.Invalidate(s.kind.Name)
	s.lock.RLock()
	if s.records != nil {
		s.records.Clear()
	}
	s.lock.RUnlock()
	s.adapter.FetchAll.Notify(interfaces.ListInvalidated)
}

// Get returns one record by id. A record that was fetched or created within the record cache TTL is
// returned from the cache; otherwise it is requested from the backend. Get never changes the cached
// list.
func (s *Store[Req, Rec, PRec]) Get(ctx context.Context, id string) (*Rec, error) {
	if entry := s.safeCacheGet(id); entry != nil && !entry.Expired() {
		if rec, ok := entry.Value().(Rec); ok {
			s.metrics.RecordCacheHit(s.kind.Name, RecordCache)
			return &rec, nil
		}
	}
	value, err, _ := s.gets.Do(id, func() (interface{}, error) {
		rec, err := s.adapter.FetchOne.Run(ctx, id)
		if err != nil {
			return nil, err
		}
		s.safeCacheSet(id, *rec)
		return *rec, nil
	})
	if err != nil {
		return nil, err
	}
	rec := value.(Rec)
	return &rec, nil
}

// AddListListener subscribes to changes of the cached list. The channel receives a ListChange after
// every fetch, failed fetch, append and invalidation. A listener that does not keep up may miss changes.
func (s *Store[Req, Rec, PRec]) AddListListener() <-chan interfaces.ListChange {
	return s.adapter.FetchAll.AddListener()
}

// RemoveListListener unsubscribes and closes a channel returned by AddListListener.
func (s *Store[Req, Rec, PRec]) RemoveListListener(ch <-chan interfaces.ListChange) {
	s.adapter.FetchAll.RemoveListener(ch)
}

// Close releases the store's resources and closes all list listener channels.
func (s *Store[Req, Rec, PRec]) Close() {
	s.adapter.FetchAll.Close()
	s.lock.Lock()
	if s.records != nil {
		s.records.Stop()
		s.records = nil
	}
	s.lock.Unlock()
}

// safeCacheGet and safeCacheSet guard the record cache with the store lock, because using a ccache.Cache
// after Stop can panic; Close sets it to nil.
func (s *Store[Req, Rec, PRec]) safeCacheGet(id string) *ccache.Item {
	var ret *ccache.Item
	s.lock.RLock()
	if s.records != nil {
		ret = s.records.Get(id)
	}
	s.lock.RUnlock()
	return ret
}

func (s *Store[Req, Rec, PRec]) safeCacheSet(id string, rec Rec) {
	s.lock.RLock()
	if s.records != nil {
		s.records.Set(id, rec, s.recordTTL)
	}
	s.lock.RUnlock()
}

// StoreStatus is a summary of a store's state, as reported by MendelClient.Status.
type StoreStatus struct {
	Kind        mdmodel.Kind
	ListPresent bool
	ListSize    int
	FormActive  bool
	Create      interfaces.RequestPhase
	FetchAll    interfaces.RequestPhase
	FetchOne    interfaces.RequestPhase
	// LastError is the error message of the first failed request phase, in the order create,
	// fetch-all, fetch-one.
	LastError string
}

// Status returns a summary of the store's state.
func (s *Store[Req, Rec, PRec]) Status() StoreStatus {
	list, present := s.List()
	create, fetchAll, fetchOne := s.CreateState(), s.FetchState(), s.GetState()
	ret := StoreStatus{
		Kind:        s.kind,
		ListPresent: present,
		ListSize:    len(list),
		FormActive:  s.FormActive(),
		Create:      create.Phase(),
		FetchAll:    fetchAll.Phase(),
		FetchOne:    fetchOne.Phase(),
	}
	for _, msg := range []string{create.Error(), fetchAll.Error(), fetchOne.Error()} {
		if msg != "" {
			ret.LastError = msg
			break
		}
	}
	return ret
}
