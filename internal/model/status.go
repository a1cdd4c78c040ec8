package model

type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "inProgress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// StatusOrder is the linear lifecycle a complaint moves through. Transitions
// only ever advance one step; there is no skipping ahead and no going back.
var StatusOrder = []Status{
	StatusSubmitted,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

func (s Status) Valid() bool {
	for _, v := range StatusOrder {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns the display name shown on badges and timelines.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusAssigned:
		return "Assigned"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	case StatusClosed:
		return "Closed"
	default:
		return string(s)
	}
}

// Next returns the immediate successor in the lifecycle, or false if the
// status is terminal or unknown.
func (s Status) Next() (Status, bool) {
	for i, v := range StatusOrder {
		if s == v && i+1 < len(StatusOrder) {
			return StatusOrder[i+1], true
		}
	}
	return "", false
}

// CanTransition reports whether next is a legal move from current. Only the
// immediate successor is legal; re-applying the current status is not.
func CanTransition(current, next Status) bool {
	succ, ok := current.Next()
	return ok && succ == next
}

// StyleFor maps a status to its UI badge variant token. Kept separate from
// the lifecycle rules so presentation concerns never leak into them.
func StyleFor(s Status) string {
	switch s {
	case StatusSubmitted, StatusAssigned, StatusInProgress, StatusResolved:
		return string(s)
	case StatusClosed:
		return "closed"
	default:
		return "default"
	}
}
