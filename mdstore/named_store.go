package mdstore

import (
	"sync"

	"github.com/mendelcore/go-admin-client/mdmodel"
	"github.com/mendelcore/go-admin-client/subsystems"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NamedStore is a Store for a kind whose records have display names. It adds a name-to-id lookup
// derived from the cached list.
type NamedStore[Req jwriter.Writable, Rec mdmodel.NamedRecord, PRec RecordPtr[Rec]] struct {
	*Store[Req, Rec, PRec]
	memoLock    sync.Mutex
	memo        map[string]string
	memoVersion uint64
	memoValid   bool
}

// NewNamedStore creates a NamedStore for the given kind.
func NewNamedStore[Req jwriter.Writable, Rec mdmodel.NamedRecord, PRec RecordPtr[Rec]](
	clientContext subsystems.ClientContext,
	kind mdmodel.Kind,
	options Options,
) *NamedStore[Req, Rec, PRec] {
	return &NamedStore[Req, Rec, PRec]{Store: NewStore[Req, Rec, PRec](clientContext, kind, options)}
}

// Identifiers returns a map from display name to id for the records in the cached list. It is empty if
// the list is absent. The result is recomputed only when the list has changed, and the caller may
// modify it.
func (s *NamedStore[Req, Rec, PRec]) Identifiers() map[string]string {
	s.memoLock.Lock()
	defer s.memoLock.Unlock()
	list, _, version := s.adapter.FetchAll.Snapshot()
	if !s.memoValid || s.memoVersion != version {
		s.memo = Identifiers(list)
		s.memoVersion = version
		s.memoValid = true
	}
	return maps.Clone(s.memo)
}

// Identifiers builds a map from display name to id. The records are visited in ascending name order
// using locale-aware collation, so if two records share a name, the one later in the list wins.
func Identifiers[Rec mdmodel.NamedRecord](list []Rec) map[string]string {
	sorted := slices.Clone(list)
	coll := collate.New(language.Und)
	slices.SortStableFunc(sorted, func(a, b Rec) bool {
		return coll.CompareString(a.GetName(), b.GetName()) < 0
	})
	ret := make(map[string]string, len(sorted))
	for _, rec := range sorted {
		ret[rec.GetName()] = rec.GetID()
	}
	return ret
}
