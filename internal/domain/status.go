package domain

// Status is the lifecycle shared by events, rounds and questions.
// Every entity moves pending -> ongoing -> completed and never regresses.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// NormalizeStatus maps legacy schema spellings ("PENDING", "ONGOING",
// "COMPLETE") onto the canonical lowercase values. Unknown values are
// returned unchanged so callers can reject them.
func NormalizeStatus(raw string) Status {
	switch raw {
	case "pending", "PENDING":
		return StatusPending
	case "ongoing", "ONGOING":
		return StatusOngoing
	case "completed", "COMPLETE", "COMPLETED":
		return StatusCompleted
	}

	return Status(raw)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusOngoing, StatusCompleted:
		return true
	}

	return false
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle step. Only pending->ongoing and ongoing->completed are.
func (s Status) CanTransition(next Status) bool {
	switch {
	case s == StatusPending && next == StatusOngoing:
		return true
	case s == StatusOngoing && next == StatusCompleted:
		return true
	}

	return false
}
