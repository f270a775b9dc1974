package router

// Status is the router's lifecycle state.
type Status int

// Router states.
const (
	Idle Status = iota
	Loading
	Rendered
	Failed
	NotFoundPage
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	case NotFoundPage:
		return "not_found"
	default:
		return "unknown"
	}
}

// State is a snapshot of the router.
type State struct {
	Status Status
	// Path is the path of the current or in-flight route, without query.
	Path string
	// Generation increases with every navigation.
	Generation uint64
}
