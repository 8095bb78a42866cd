package domain

import (
	"sort"
	"time"
)

// Task represents a single tracked to-do item.
type Task struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Completed bool         `json:"completed"`
	DueDate   CalendarDate `json:"dueDate"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TaskUpdate carries a partial field set for an update; nil fields are
// left unchanged. Clearing a due date is expressed as an explicit
// zero-value date.
type TaskUpdate struct {
	Text      *string       `json:"text,omitempty"`
	Completed *bool         `json:"completed,omitempty"`
	DueDate   *CalendarDate `json:"dueDate,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Text == nil && u.Completed == nil && u.DueDate == nil
}

// SortByDueDate orders tasks by due date ascending, tasks without a due
// date last, ties broken by creation time.
func SortByDueDate(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case di.IsZero() && dj.IsZero():
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		case di.Equal(dj):
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		default:
			return di.Before(dj)
		}
	})
}

// SortByCreatedAt orders tasks by insertion time ascending.
func SortByCreatedAt(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
