package types

// StoreState is the readiness of the note store
type StoreState int

const (
	StoreStateUninitialized StoreState = iota
	StoreStateLoading
	StoreStateReady
)

func (s StoreState) String() string {
	switch s {
	case StoreStateUninitialized:
		return "uninitialized"
	case StoreStateLoading:
		return "loading"
	case StoreStateReady:
		return "ready"
	default:
		return "unknown"
	}
}
