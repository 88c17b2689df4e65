package controller

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"xhsops/internal/app"
	"xhsops/internal/app/models"
	"xhsops/internal/app/store"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

const backendCallTimeout = 15 * time.Second

// TaskController orchestrates submit -> track -> complete/fail/cancel/delete
// for every task. It is the only writer of the task store: poll ticks,
// stream events and user actions all funnel through the store's transition
// rules, so any interleaving leaves the store consistent.
type TaskController struct {
	taskStore    *store.TaskStore
	backend      app.Backend
	streamer     app.TaskStreamer
	pollInterval time.Duration
	wg           sync.WaitGroup

	resultsMu   sync.Mutex
	lastResults []*models.ResultFile
}

func CreateTaskController(taskStore *store.TaskStore, backend app.Backend, streamer app.TaskStreamer, pollInterval time.Duration) *TaskController {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &TaskController{
		taskStore:    taskStore,
		backend:      backend,
		streamer:     streamer,
		pollInterval: pollInterval,
	}
}

// Submit creates a queued task that appears immediately, then hands the
// configuration to the backend asynchronously. The task moves to processing
// only once the backend acknowledges it with an id; a rejected submission
// fails the task with the backend message and never starts any tracking.
func (c *TaskController) Submit(ctx context.Context, spec models.InputSpec) (*models.Task, error) {
	const funcName = "TaskController.Submit"
	logger.Debug("submitting task",
		zap.String("function", funcName),
		zap.String("kind", string(spec.Kind)),
	)

	task, err := c.taskStore.CreateTask(spec)
	if err != nil {
		logger.Error("failed to create task",
			zap.String("function", funcName),
			zap.Error(err),
		)
		return nil, err
	}

	c.wg.Add(1)
	go c.runSubmit(task.LocalID, spec)

	return task, nil
}

// runSubmit performs the backend call on its own context: submission must
// outlive the request that triggered it.
func (c *TaskController) runSubmit(localID string, spec models.InputSpec) {
	const funcName = "TaskController.runSubmit"
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
	defer cancel()

	backendID, err := c.backend.SubmitTask(ctx, spec.Kind, spec.Config)
	if err != nil {
		logger.Error("submission rejected by backend",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.Error(err),
		)
		if _, err := c.taskStore.UpdateStatus(localID, models.StatusFailed, backendText(err)); err != nil {
			logger.Warn("failed task vanished before status update",
				zap.String("function", funcName),
				zap.String("local_id", localID),
				zap.Error(err),
			)
		}
		return
	}

	if err := c.taskStore.SetBackendID(localID, backendID); err != nil {
		// The task was removed while the submission was in flight; the
		// backend job is orphaned, so ask it to stop, best-effort.
		logger.Warn("task gone before backend id could be recorded",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.String("backend_id", backendID),
			zap.Error(err),
		)
		c.fireAndForget(funcName, func(ctx context.Context) error {
			return c.backend.CancelTask(ctx, backendID)
		})
		return
	}

	applied, err := c.taskStore.UpdateStatus(localID, models.StatusProcessing, "")
	if err != nil || !applied {
		logger.Warn("task no longer queued after submission",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.Error(err),
		)
		return
	}

	c.startTracking(localID, spec.Kind, backendID)
}

// startTracking attaches the polling loop and the log stream to a task the
// backend just accepted. Both handles live in the store, which stops them
// the instant the task leaves processing.
func (c *TaskController) startTracking(localID string, kind models.TaskKind, backendID string) {
	const funcName = "TaskController.startTracking"

	stop := make(chan struct{})
	var stopOnce sync.Once
	stopPolling := func() {
		stopOnce.Do(func() { close(stop) })
	}

	if err := c.taskStore.RegisterPoller(localID, stopPolling); err != nil {
		logger.Warn("poller not registered",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.Error(err),
		)
	} else {
		c.wg.Add(1)
		go c.pollLoop(localID, kind, backendID, stop)
	}

	unsubscribe := c.streamer.StreamTaskLogs(kind, backendID,
		func(event models.StreamEvent) { c.handleStreamEvent(localID, event) },
		func(status models.TaskStatus, err error) { c.handleStreamClose(localID, status, err) },
	)
	if err := c.taskStore.RegisterStream(localID, unsubscribe); err != nil {
		logger.Warn("log stream not registered",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.Error(err),
		)
	}

	logger.Info("task tracking started",
		zap.String("function", funcName),
		zap.String("local_id", localID),
		zap.String("backend_id", backendID),
		zap.Duration("poll_interval", c.pollInterval),
	)
}

// pollLoop fires one immediate status check so first feedback is not
// delayed by a full interval, then polls on the configured cadence until
// its stop handle is released.
func (c *TaskController) pollLoop(localID string, kind models.TaskKind, backendID string, stop <-chan struct{}) {
	defer c.wg.Done()

	c.pollOnce(localID, kind, backendID)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.pollOnce(localID, kind, backendID)
		}
	}
}

// pollOnce swallows transient fetch errors: a network blip never moves a
// task out of processing, the next tick simply retries.
func (c *TaskController) pollOnce(localID string, kind models.TaskKind, backendID string) {
	const funcName = "TaskController.pollOnce"

	ctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
	defer cancel()

	report, err := c.backend.FetchTaskStatus(ctx, kind, backendID)
	if err != nil {
		logger.Debug("status poll failed, will retry",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.Error(err),
		)
		return
	}

	if err := c.taskStore.SetProgress(localID, report.Progress); err != nil {
		return
	}

	if report.Status.Terminal() {
		c.applyTerminal(localID, report.Status, report.Error)
	}
}

func (c *TaskController) handleStreamEvent(localID string, event models.StreamEvent) {
	switch event.Type {
	case models.EventLog:
		if err := c.taskStore.AppendLog(localID, event.Message); err != nil {
			logger.Debug("dropping log line for unknown task",
				zap.String("local_id", localID),
				zap.Error(err),
			)
		}
	case models.EventStatus:
		if event.Status.Terminal() {
			c.applyTerminal(localID, event.Status, event.Message)
		}
	}
}

// handleStreamClose treats a dropped log stream as the task having ended:
// a finished or errored task has no more logs to recover, so the stream is
// never reconnected.
func (c *TaskController) handleStreamClose(localID string, status models.TaskStatus, err error) {
	if err != nil {
		c.applyTerminal(localID, models.StatusFailed, backendText(err))
		return
	}
	c.applyTerminal(localID, status, "")
}

// applyTerminal records a terminal outcome. The store ignores the call if a
// faster source (stream vs poll) already moved the task, so late arrivals
// are harmless.
func (c *TaskController) applyTerminal(localID string, status models.TaskStatus, errMsg string) {
	const funcName = "TaskController.applyTerminal"

	applied, err := c.taskStore.UpdateStatus(localID, status, errMsg)
	if err != nil || !applied {
		return
	}

	logger.Info("task finished",
		zap.String("function", funcName),
		zap.String("local_id", localID),
		zap.String("status", string(status)),
	)

	if status == models.StatusCompleted {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.refreshResults()
		}()
	}
}

// Cancel forces the local task to cancelled and fires a best-effort backend
// cancel. The backend call's outcome never blocks or reverts the local
// state: stale UI state is worse than an optimistic cancel for an operator
// tool.
func (c *TaskController) Cancel(ctx context.Context, localID string) error {
	const funcName = "TaskController.Cancel"
	logger.Debug("cancelling task",
		zap.String("function", funcName),
		zap.String("local_id", localID),
	)

	applied, err := c.taskStore.UpdateStatus(localID, models.StatusCancelled, "cancelled by user")
	if err != nil {
		return err
	}
	if !applied {
		return errs.ErrTaskNotActive
	}

	if backendID, ok := c.taskStore.BackendID(localID); ok {
		c.fireAndForget(funcName, func(ctx context.Context) error {
			return c.backend.CancelTask(ctx, backendID)
		})
	}

	return nil
}

// Delete removes a finished task from the store unconditionally and fires a
// best-effort backend delete for its persisted record.
func (c *TaskController) Delete(ctx context.Context, localID string) error {
	const funcName = "TaskController.Delete"
	logger.Debug("deleting task",
		zap.String("function", funcName),
		zap.String("local_id", localID),
	)

	task, err := c.taskStore.GetTask(localID)
	if err != nil {
		return err
	}
	if !task.Status.Terminal() {
		return errs.ErrTaskNotTerminal
	}

	backendID, hasBackendID := c.taskStore.BackendID(localID)

	if err := c.taskStore.RemoveTask(localID); err != nil {
		return err
	}

	if hasBackendID {
		c.fireAndForget(funcName, func(ctx context.Context) error {
			return c.backend.DeleteTask(ctx, backendID)
		})
	}

	return nil
}

// Recover rebuilds local tasks from the backend's persisted list after a
// reload. Recovery is a convenience, not a correctness requirement: a list
// failure degrades to an empty task list. Tasks reported mid-flight by a
// stale snapshot were orphaned by a backend restart, so no pollers or
// streams are resumed for them.
func (c *TaskController) Recover(ctx context.Context) error {
	const funcName = "TaskController.Recover"
	logger.Debug("recovering persisted tasks",
		zap.String("function", funcName),
	)

	records, err := c.backend.ListPersistedTasks(ctx)
	if err != nil {
		logger.Warn("task recovery skipped",
			zap.String("function", funcName),
			zap.Error(err),
		)
		return nil
	}

	recovered := 0
	for _, rec := range records {
		kind := rec.Kind
		if kind == "" {
			kind = models.KindCleaning
		}

		task := &models.Task{
			BackendID: rec.TaskID,
			Kind:      kind,
			Spec: models.InputSpec{
				Kind:        kind,
				Description: rec.Description,
				Config:      rec.Config,
			},
			Status:      models.ParseStatus(rec.Status),
			Progress:    rec.Progress,
			Error:       rec.Error,
			CreatedAt:   rec.CreatedAt,
			CompletedAt: rec.CompletedAt,
		}
		if task.Status == models.StatusCompleted {
			task.Progress = 100
		}
		if task.Status != models.StatusQueued {
			started := rec.CreatedAt
			task.StartedAt = &started
		}

		if err := c.taskStore.AdoptTask(task); err != nil {
			logger.Warn("skipping unrecoverable task record",
				zap.String("function", funcName),
				zap.String("backend_id", rec.TaskID),
				zap.Error(err),
			)
			continue
		}
		recovered++
	}

	logger.Info("task recovery finished",
		zap.String("function", funcName),
		zap.Int("recovered", recovered),
		zap.Int("records", len(records)),
	)

	return nil
}

func (c *TaskController) GetTask(localID string) (*models.Task, error) {
	return c.taskStore.GetTask(localID)
}

func (c *TaskController) ListTasks() []*models.Task {
	return c.taskStore.ListTasks()
}

func (c *TaskController) ActiveCount() int {
	return c.taskStore.ActiveCount()
}

func (c *TaskController) MaxActive() int {
	return c.taskStore.MaxActive()
}

// ListResults fetches the result-file list, falling back to the last known
// snapshot when the backend is unreachable.
func (c *TaskController) ListResults(ctx context.Context) ([]*models.ResultFile, error) {
	const funcName = "TaskController.ListResults"

	files, err := c.backend.ListResultFiles(ctx)
	if err != nil {
		c.resultsMu.Lock()
		cached := c.lastResults
		c.resultsMu.Unlock()

		if cached != nil {
			logger.Warn("serving cached result list",
				zap.String("function", funcName),
				zap.Int("count", len(cached)),
				zap.Error(err),
			)
			return cached, nil
		}
		return nil, err
	}

	c.resultsMu.Lock()
	c.lastResults = files
	c.resultsMu.Unlock()

	return files, nil
}

func (c *TaskController) GetResult(ctx context.Context, filename string) (json.RawMessage, error) {
	return c.backend.FetchResult(ctx, filename)
}

func (c *TaskController) DeleteResult(ctx context.Context, filename string) error {
	return c.backend.DeleteResult(ctx, filename)
}

func (c *TaskController) refreshResults() {
	const funcName = "TaskController.refreshResults"

	ctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
	defer cancel()

	files, err := c.backend.ListResultFiles(ctx)
	if err != nil {
		logger.Warn("result list refresh failed",
			zap.String("function", funcName),
			zap.Error(err),
		)
		return
	}

	c.resultsMu.Lock()
	c.lastResults = files
	c.resultsMu.Unlock()

	logger.Info("result list refreshed",
		zap.String("function", funcName),
		zap.Int("count", len(files)),
	)
}

// Close releases every tracked resource and waits for in-flight work. No
// timer fires after Close returns.
func (c *TaskController) Close() {
	const funcName = "TaskController.Close"

	c.taskStore.Close()
	c.wg.Wait()

	logger.Info("task controller closed",
		zap.String("function", funcName),
	)
}

// fireAndForget runs one best-effort backend call: failures are logged for
// diagnostics but never surfaced, because the corresponding local state
// change has already happened.
func (c *TaskController) fireAndForget(funcName string, call func(context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), backendCallTimeout)
		defer cancel()

		if err := call(ctx); err != nil {
			logger.Warn("best-effort backend call failed",
				zap.String("function", funcName),
				zap.Error(err),
			)
		}
	}()
}

// backendText strips the transport sentinel prefix so the user sees the
// backend-supplied message verbatim.
func backendText(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		errs.ErrSubmission,
		errs.ErrStatusFetch,
		errs.ErrStreamTransport,
	} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
