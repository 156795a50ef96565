package domain

// ConflictPolicy defines what a multi-row slot insert does when an instant
// (employee_id, start_time) is already occupied
type ConflictPolicy int

const (
	// ConflictFail aborts the insert with a conflict error
	ConflictFail ConflictPolicy = iota
	// ConflictSkip leaves the existing slot untouched and inserts nothing
	ConflictSkip
	// ConflictAdopt marks the existing slot as recurring instead of inserting
	ConflictAdopt
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictFail:
		return "fail"
	case ConflictSkip:
		return "skip"
	case ConflictAdopt:
		return "adopt"
	default:
		return "unknown"
	}
}
