package api

import "tasktrack-api/domain"

const taskBodyMaxSize = 64 * 1024 // 64 KiB

// POST /api/tasks request body
type createTaskRequest struct {
	Text    string              `json:"text"`
	DueDate domain.CalendarDate `json:"dueDate"`
}

// taskView is a task as rendered on the wire, with its classification
// computed at response time.
type taskView struct {
	domain.Task
	Status domain.Status `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}
