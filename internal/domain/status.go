package domain

// Status is a complaint's lifecycle state. Any valid status may follow any
// other; the order only expresses increasing resolution progress.
type Status string

const (
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusResolved   Status = "resolved"
)

// InitialStatus is assigned on creation.
const InitialStatus = StatusReceived

var statuses = []Status{StatusReceived, StatusInProgress, StatusDone, StatusResolved}

// Statuses returns the valid statuses in progress order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// Valid reports whether s is one of the fixed statuses.
func (s Status) Valid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status label.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", Invalid("status", "unknown status %q", raw)
	}
	return s, nil
}

// Priority is an administrative triage label.
type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

// DefaultPriority is assigned on creation.
const DefaultPriority = PriorityMedium

// ParsePriority validates a raw priority label.
func ParsePriority(raw string) (Priority, error) {
	switch p := Priority(raw); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", Invalid("priority", "unknown priority %q", raw)
	}
}
