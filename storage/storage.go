package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"tasktrack-api/domain"
)

// taskPartition is the fixed partition key; the store is single-tenant.
const taskPartition = "tasks"

// Storage persists tasks in an Azure Table.
type Storage struct {
	taskTable *aztables.Client
}

// New creates a Storage instance from the given connection string.
func New(connStr, tasksTable string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{taskTable: svc.NewClient(tasksTable)}, nil
}

// NotFoundError is returned when no task exists with the requested id.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string { return "task " + e.ID + " not found" }

// NotFound marks the error for handler-level status mapping.
func (NotFoundError) NotFound() {}

// entityKeys represents base table entity keys.
type entityKeys struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

type taskEntity struct {
	entityKeys
	Text      string `json:"Text"`
	Done      bool   `json:"Done"`
	DueDate   string `json:"DueDate"`
	CreatedAt string `json:"CreatedAt"`
}

// taskUpdateEntity carries a partial merge; absent fields keep their
// stored values.
type taskUpdateEntity struct {
	entityKeys
	Text    *string `json:"Text,omitempty"`
	Done    *bool   `json:"Done,omitempty"`
	DueDate *string `json:"DueDate,omitempty"`
}

func encodeTask(t domain.Task) taskEntity {
	return taskEntity{
		entityKeys: entityKeys{PartitionKey: taskPartition, RowKey: t.ID},
		Text:       t.Text,
		Done:       t.Completed,
		DueDate:    t.DueDate.String(),
		CreatedAt:  t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeTaskEntity(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := json.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	due, err := domain.ParseCalendarDate(ent.DueDate)
	if err != nil {
		return domain.Task{}, err
	}
	var createdAt time.Time
	if ent.CreatedAt != "" {
		createdAt, err = time.Parse(time.RFC3339Nano, ent.CreatedAt)
		if err != nil {
			return domain.Task{}, err
		}
	}
	return domain.Task{
		ID:        ent.RowKey,
		Text:      ent.Text,
		Completed: ent.Done,
		DueDate:   due,
		CreatedAt: createdAt,
	}, nil
}

// ListTasks retrieves every stored task.
func (s *Storage) ListTasks(ctx context.Context) ([]domain.Task, error) {
	filter := "PartitionKey eq '" + taskPartition + "'"
	pager := s.taskTable.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range resp.Entities {
			task, err := decodeTaskEntity(e)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// GetTask retrieves a single task by id.
func (s *Storage) GetTask(ctx context.Context, id string) (domain.Task, error) {
	ent, err := s.taskTable.GetEntity(ctx, taskPartition, id, nil)
	if err != nil {
		if isNotFound(err) {
			return domain.Task{}, NotFoundError{ID: id}
		}
		return domain.Task{}, err
	}
	return decodeTaskEntity(ent.Value)
}

// InsertTask persists a new task.
func (s *Storage) InsertTask(ctx context.Context, t domain.Task) error {
	payload, err := json.Marshal(encodeTask(t))
	if err != nil {
		return err
	}
	_, err = s.taskTable.AddEntity(ctx, payload, nil)
	return err
}

// UpdateTask merges the given partial update into the stored task and
// returns the resulting record.
func (s *Storage) UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) (domain.Task, error) {
	ent := taskUpdateEntity{
		entityKeys: entityKeys{PartitionKey: taskPartition, RowKey: id},
		Text:       upd.Text,
		Done:       upd.Completed,
	}
	if upd.DueDate != nil {
		due := upd.DueDate.String()
		ent.DueDate = &due
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return domain.Task{}, err
	}
	et := azcore.ETagAny
	_, err = s.taskTable.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeMerge})
	if err != nil {
		if isNotFound(err) {
			return domain.Task{}, NotFoundError{ID: id}
		}
		return domain.Task{}, err
	}
	return s.GetTask(ctx, id)
}

// DeleteTask permanently removes a task.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	_, err := s.taskTable.DeleteEntity(ctx, taskPartition, id, nil)
	if err != nil {
		if isNotFound(err) {
			return NotFoundError{ID: id}
		}
		return err
	}
	return nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == 404
}
