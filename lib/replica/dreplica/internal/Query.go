package internal

// QueryType defines the possible queries for the state machine.
type QueryType uint8

const (
	QueryTPull QueryType = iota // Retrieve the full state of the subject.
	QueryTInfo                  // Retrieve metadata about the subject.
)

func (q QueryType) String() string {
	switch q {
	case QueryTPull:
		return "Pull"
	case QueryTInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via SyncRead or StaleRead
type Query struct {
	Type QueryType // The type of Query to perform.
}
