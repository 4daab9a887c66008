package interfaces

// RequestPhase describes where a request is in its lifecycle.
type RequestPhase int

const (
	// RequestIdle means no request has been made, or the last outcome was cleared.
	RequestIdle RequestPhase = iota
	// RequestInFlight means a request is pending.
	RequestInFlight RequestPhase = iota
	// RequestSucceeded means the last request completed and produced a value.
	RequestSucceeded RequestPhase = iota
	// RequestFailed means the last request failed; the state carries an error message.
	RequestFailed RequestPhase = iota
)

// String returns a lowercase name for the phase, used in logs and status output.
func (p RequestPhase) String() string {
	switch p {
	case RequestIdle:
		return "idle"
	case RequestInFlight:
		return "in_flight"
	case RequestSucceeded:
		return "succeeded"
	case RequestFailed:
		return "failed"
	default:
		return "???"
	}
}

// RequestState is the state of one kind of request (create, fetch-all, fetch-one) made by a store.
//
// It is a tagged variant: only a RequestSucceeded state has a value and only a RequestFailed state has
// an error message, so an in-flight request can never be reported together with the error of an
// earlier one. The zero value is an idle state.
type RequestState[T any] struct {
	phase   RequestPhase
	value   T
	message string
}

// IdleState returns a RequestState in the RequestIdle phase.
func IdleState[T any]() RequestState[T] {
	return RequestState[T]{}
}

// InFlightState returns a RequestState in the RequestInFlight phase.
func InFlightState[T any]() RequestState[T] {
	return RequestState[T]{phase: RequestInFlight}
}

// SucceededState returns a RequestState in the RequestSucceeded phase carrying a value.
func SucceededState[T any](value T) RequestState[T] {
	return RequestState[T]{phase: RequestSucceeded, value: value}
}

// FailedState returns a RequestState in the RequestFailed phase carrying an error message.
func FailedState[T any](message string) RequestState[T] {
	return RequestState[T]{phase: RequestFailed, message: message}
}

// Phase returns the lifecycle phase.
func (s RequestState[T]) Phase() RequestPhase {
	return s.phase
}

// IsInFlight is shorthand for Phase() == RequestInFlight.
func (s RequestState[T]) IsInFlight() bool {
	return s.phase == RequestInFlight
}

// Value returns the result of a successful request. The second return value is false in any other
// phase.
func (s RequestState[T]) Value() (T, bool) {
	return s.value, s.phase == RequestSucceeded
}

// Error returns the error message of a failed request, or "" in any other phase.
func (s RequestState[T]) Error() string {
	return s.message
}

// ClearError returns an idle state if s is a failed state; otherwise it returns s unchanged.
func (s RequestState[T]) ClearError() RequestState[T] {
	if s.phase == RequestFailed {
		return IdleState[T]()
	}
	return s
}
