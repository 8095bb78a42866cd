package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"tasktrack-api/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, logger *log.Logger) {
	e.GET("/api/tasks", getTasks(store, logger))
	e.POST("/api/tasks", createTask(store))
	e.PATCH("/api/tasks/:id", updateTask(store))
	e.PUT("/api/tasks/:id", updateTask(store))
	e.DELETE("/api/tasks/:id", deleteTask(store))
	e.GET("/healthz", healthz(store))
}

func healthz(_ Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getTasks(store Storage, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newTaskRequestMetrics(ctx, logger)
		if spanCtx != nil {
			req := c.Request().WithContext(spanCtx)
			c.SetRequest(req)
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		sortByDueDate := c.QueryParam("sort") == "dueDate"
		metrics.SetSortByDueDate(sortByDueDate)

		fetchStart := time.Now()
		tasks, fetchErr := store.ListTasks(ctx)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal server error"})
			return err
		}

		if sortByDueDate {
			domain.SortByDueDate(tasks)
		} else {
			domain.SortByCreatedAt(tasks)
		}
		metrics.SetTasksReturned(len(tasks))

		// Status is derived against the current day on every fetch,
		// never read from the store.
		today := domain.Today()
		views := make([]taskView, len(tasks))
		for i, task := range tasks {
			views[i] = taskView{Task: task, Status: domain.ClassifyOn(task.DueDate, task.Completed, today)}
		}

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, views)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func createTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req createTaskRequest
		if err := decodeBody(c.Request().Body, &req); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}
		if strings.TrimSpace(req.Text) == "" {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "task text is required"})
		}

		task := domain.Task{
			ID:        uuid.NewString(),
			Text:      req.Text,
			Completed: false,
			DueDate:   req.DueDate,
			CreatedAt: time.Now().UTC(),
		}
		if err := store.InsertTask(ctx, task); err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal server error"})
		}
		return c.JSON(http.StatusCreated, taskView{Task: task, Status: domain.Classify(task.DueDate, task.Completed)})
	}
}

func updateTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		var upd domain.TaskUpdate
		if err := decodeBody(c.Request().Body, &upd); err != nil {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid body"})
		}
		if upd.Text != nil && strings.TrimSpace(*upd.Text) == "" {
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "task text is required"})
		}

		task, err := store.UpdateTask(ctx, id, upd)
		if err != nil {
			return storeError(c, err)
		}
		return c.JSON(http.StatusOK, taskView{Task: task, Status: domain.Classify(task.DueDate, task.Completed)})
	}
}

func deleteTask(store Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		if err := store.DeleteTask(ctx, id); err != nil {
			return storeError(c, err)
		}
		return c.JSON(http.StatusOK, messageResponse{Message: "task deleted"})
	}
}

func decodeBody(body io.Reader, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(body, taskBodyMaxSize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// storeError maps storage failures to responses: typed not-found errors
// become 404, everything else a generic 500.
func storeError(c echo.Context, err error) error {
	var notFound NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Message: notFound.Error()})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal server error"})
}
