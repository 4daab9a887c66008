package interfaces

// ListChangeReason says why a store's cached list changed.
type ListChangeReason int

const (
	// ListReplaced means a fetch replaced the whole list.
	ListReplaced ListChangeReason = iota
	// ListReset means a failed fetch discarded the list; it is now absent.
	ListReset ListChangeReason = iota
	// ListAppended means a created record was appended to the list.
	ListAppended ListChangeReason = iota
	// ListInvalidated means the list was marked stale; its contents did not change.
	ListInvalidated ListChangeReason = iota
)

func (r ListChangeReason) String() string {
	switch r {
	case ListReplaced:
		return "replaced"
	case ListReset:
		return "reset"
	case ListAppended:
		return "appended"
	case ListInvalidated:
		return "invalidated"
	default:
		return "???"
	}
}

// ListChange is sent to list listeners after a store's cached list changes.
//
// See mdstore.Store.AddListListener.
type ListChange struct {
	// Kind is the name of the entity kind, such as "plant-species".
	Kind string
	// Reason describes the change.
	Reason ListChangeReason
	// Present is false if the list is now absent.
	Present bool
	// Size is the number of records now in the list.
	Size int
	// Version increases by one with every change to the list's contents.
	Version uint64
}
