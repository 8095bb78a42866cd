package storage

import (
	"encoding/json"
	"testing"
	"time"

	"tasktrack-api/domain"
)

func TestDecodeTaskEntity(t *testing.T) {
	data := []byte(`{"PartitionKey":"tasks","RowKey":"t1","Text":"buy milk","Done":true,"DueDate":"2024-06-15","CreatedAt":"2024-06-01T12:00:00Z"}`)
	task, err := decodeTaskEntity(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ID != "t1" || task.Text != "buy milk" || !task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.DueDate.String() != "2024-06-15" {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}
	if !task.CreatedAt.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created at: %v", task.CreatedAt)
	}
}

func TestDecodeTaskEntityNoDueDate(t *testing.T) {
	data := []byte(`{"PartitionKey":"tasks","RowKey":"t2","Text":"walk dog","Done":false,"DueDate":"","CreatedAt":"2024-06-01T12:00:00Z"}`)
	task, err := decodeTaskEntity(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !task.DueDate.IsZero() {
		t.Fatalf("expected no due date, got %v", task.DueDate)
	}
}

func TestDecodeTaskEntityBadDate(t *testing.T) {
	data := []byte(`{"PartitionKey":"tasks","RowKey":"t3","Text":"x","DueDate":"garbage"}`)
	if _, err := decodeTaskEntity(data); err == nil {
		t.Fatal("expected decode error for malformed due date")
	}
}

func TestEncodeTaskRoundTrip(t *testing.T) {
	due, err := domain.ParseCalendarDate("2024-02-29")
	if err != nil {
		t.Fatalf("parse due date: %v", err)
	}
	task := domain.Task{
		ID:        "t4",
		Text:      "file taxes",
		Completed: false,
		DueDate:   due,
		CreatedAt: time.Date(2024, 2, 1, 8, 30, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(encodeTask(task))
	if err != nil {
		t.Fatalf("marshal entity: %v", err)
	}
	back, err := decodeTaskEntity(payload)
	if err != nil {
		t.Fatalf("decode entity: %v", err)
	}
	if back.ID != task.ID || back.Text != task.Text || back.Completed != task.Completed {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if !back.DueDate.Equal(task.DueDate) {
		t.Fatalf("due date mismatch: %v", back.DueDate)
	}
	if !back.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("created at mismatch: %v", back.CreatedAt)
	}
}

func TestEncodeTaskEntityKeys(t *testing.T) {
	ent := encodeTask(domain.Task{ID: "t5", Text: "x"})
	if ent.PartitionKey != taskPartition {
		t.Fatalf("unexpected partition key %q", ent.PartitionKey)
	}
	if ent.RowKey != "t5" {
		t.Fatalf("unexpected row key %q", ent.RowKey)
	}
	if ent.DueDate != "" {
		t.Fatalf("expected empty due date, got %q", ent.DueDate)
	}
}

func TestNotFoundErrorMarker(t *testing.T) {
	var err error = NotFoundError{ID: "missing"}
	if _, ok := err.(interface{ NotFound() }); !ok {
		t.Fatal("NotFoundError must implement the NotFound marker")
	}
	if err.Error() != "task missing not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
