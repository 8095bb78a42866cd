package domain

// Status is the derived due-date classification of a task. It is never
// persisted; list and mutation responses recompute it against the
// current day.
type Status string

const (
	StatusDone      Status = "done"
	StatusNoDueDate Status = "none"
	StatusOverdue   Status = "overdue"
	StatusDueToday  Status = "due-today"
	StatusUpcoming  Status = "upcoming"
)

// ClassifyOn classifies a task against an explicit calendar day.
// Priority order: completed wins over everything, then absence of a
// due date, then the due day compared to today.
func ClassifyOn(due CalendarDate, completed bool, today CalendarDate) Status {
	if completed {
		return StatusDone
	}
	if due.IsZero() {
		return StatusNoDueDate
	}
	switch {
	case due.Before(today):
		return StatusOverdue
	case due.Equal(today):
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

// Classify classifies a task against the current local calendar day.
func Classify(due CalendarDate, completed bool) Status {
	return ClassifyOn(due, completed, Today())
}
