package app

import (
	"context"
	"encoding/json"

	"xhsops/internal/app/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go

// Backend is the set of REST operations the job engine exposes. One call per
// operation, no retries, no caching: errors are normalized into the errs
// sentinels with the backend message attached.
type Backend interface {
	SubmitTask(ctx context.Context, kind models.TaskKind, config json.RawMessage) (string, error)
	FetchTaskStatus(ctx context.Context, kind models.TaskKind, backendID string) (*models.StatusReport, error)
	ListPersistedTasks(ctx context.Context) ([]*models.PersistedTask, error)
	CancelTask(ctx context.Context, backendID string) error
	DeleteTask(ctx context.Context, backendID string) error
	ListResultFiles(ctx context.Context) ([]*models.ResultFile, error)
	FetchResult(ctx context.Context, filename string) (json.RawMessage, error)
	DeleteResult(ctx context.Context, filename string) error
}

// TaskStreamer opens a per-task log stream. onEvent receives every decoded
// frame in backend order; onClose fires exactly once when the stream ends,
// either with the terminal status the backend reported or with StatusFailed
// and a transport error. The returned stop function is idempotent.
type TaskStreamer interface {
	StreamTaskLogs(kind models.TaskKind, backendID string, onEvent func(models.StreamEvent), onClose func(models.TaskStatus, error)) func()
}

// TaskController is the surface the presentation layer drives.
type TaskController interface {
	Submit(ctx context.Context, spec models.InputSpec) (*models.Task, error)
	Cancel(ctx context.Context, localID string) error
	Delete(ctx context.Context, localID string) error
	GetTask(localID string) (*models.Task, error)
	ListTasks() []*models.Task
	ActiveCount() int
	MaxActive() int
	Recover(ctx context.Context) error
	ListResults(ctx context.Context) ([]*models.ResultFile, error)
	GetResult(ctx context.Context, filename string) (json.RawMessage, error)
	DeleteResult(ctx context.Context, filename string) error
}

// BrowserState is the read side of the global browser event stream.
type BrowserState interface {
	OpenBrowsers() []int64
	IsOpen(accountID int64) bool
}
