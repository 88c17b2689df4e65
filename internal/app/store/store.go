package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

// TaskStore is the single source of truth for every task the current
// session knows about. It owns the localId->backendId mapping and the poll
// and stream stop-handles, and guarantees both handles are released the
// instant a task leaves processing, is removed, or the store is torn down.
type TaskStore struct {
	mu        sync.Mutex
	order     []string
	tasks     map[string]*models.Task
	backendID map[string]string
	pollers   map[string]func()
	streams   map[string]func()
	maxActive int
	closed    bool
}

func CreateTaskStore(maxActive int) *TaskStore {
	return &TaskStore{
		tasks:     make(map[string]*models.Task),
		backendID: make(map[string]string),
		pollers:   make(map[string]func()),
		streams:   make(map[string]func()),
		maxActive: maxActive,
	}
}

// CreateTask appends a new queued task and returns a snapshot of it.
func (s *TaskStore) CreateTask(spec models.InputSpec) (*models.Task, error) {
	const funcName = "TaskStore.CreateTask"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errs.ErrStoreClosed
	}

	if s.activeCountLocked() >= s.maxActive {
		logger.Warn("maximum active tasks reached",
			zap.String("function", funcName),
			zap.Int("active_tasks", s.activeCountLocked()),
			zap.Int("max_tasks", s.maxActive),
		)
		return nil, fmt.Errorf("%w: current %d, max %d", errs.ErrMaxTasksReached, s.activeCountLocked(), s.maxActive)
	}

	task := &models.Task{
		LocalID:   uuid.NewString(),
		Kind:      spec.Kind,
		Spec:      spec,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
	}

	s.order = append(s.order, task.LocalID)
	s.tasks[task.LocalID] = task

	logger.Info("task created",
		zap.String("function", funcName),
		zap.String("local_id", task.LocalID),
		zap.String("kind", string(task.Kind)),
		zap.Int("active_tasks", s.activeCountLocked()),
	)

	return task.Clone(), nil
}

// AdoptTask inserts an already-shaped task, used for reload recovery. No
// trackers are registered: a recovered task waits for an explicit status
// check before anything changes.
func (s *TaskStore) AdoptTask(task *models.Task) error {
	const funcName = "TaskStore.AdoptTask"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errs.ErrStoreClosed
	}

	if task.LocalID == "" {
		task.LocalID = uuid.NewString()
	}
	if _, exists := s.tasks[task.LocalID]; exists {
		return fmt.Errorf("%w: duplicate local id %s", errs.ErrTrackerExists, task.LocalID)
	}

	s.order = append(s.order, task.LocalID)
	s.tasks[task.LocalID] = task
	if task.BackendID != "" {
		s.backendID[task.LocalID] = task.BackendID
	}

	logger.Info("task adopted from backend snapshot",
		zap.String("function", funcName),
		zap.String("local_id", task.LocalID),
		zap.String("backend_id", task.BackendID),
		zap.String("status", string(task.Status)),
	)

	return nil
}

func (s *TaskStore) GetTask(localID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists {
		return nil, errs.ErrTaskNotFound
	}

	return task.Clone(), nil
}

// ListTasks returns snapshots in submission order.
func (s *TaskStore) ListTasks() []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*models.Task, 0, len(s.order))
	for _, localID := range s.order {
		if task, exists := s.tasks[localID]; exists {
			tasks = append(tasks, task.Clone())
		}
	}

	return tasks
}

// SetBackendID records the backend-issued identifier. The mapping is
// immutable once established.
func (s *TaskStore) SetBackendID(localID, backendID string) error {
	const funcName = "TaskStore.SetBackendID"

	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists {
		return errs.ErrTaskNotFound
	}
	if task.BackendID != "" {
		logger.Warn("backend id already recorded",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.String("existing", task.BackendID),
			zap.String("rejected", backendID),
		)
		return errs.ErrBackendIDSet
	}

	task.BackendID = backendID
	s.backendID[localID] = backendID

	logger.Info("backend id recorded",
		zap.String("function", funcName),
		zap.String("local_id", localID),
		zap.String("backend_id", backendID),
	)

	return nil
}

func (s *TaskStore) BackendID(localID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.backendID[localID]
	return id, ok
}

// canTransition encodes the lifecycle state machine. Terminal states have
// no exits, and a late-arriving earlier state never moves a task backward.
func canTransition(from, to models.TaskStatus) bool {
	switch from {
	case models.StatusQueued:
		return to == models.StatusProcessing || to == models.StatusFailed
	case models.StatusProcessing:
		switch to {
		case models.StatusCompleted, models.StatusFailed, models.StatusRateLimited, models.StatusCancelled:
			return true
		}
	}
	return false
}

// UpdateStatus applies one forward transition and reports whether it was
// applied. Moving into a terminal state sets completedAt, forces progress to
// 100 on completion, and releases the task's poller and stream immediately,
// under the same lock that decided the transition, so a racing poll tick or
// cancel request cannot observe a half-updated task.
func (s *TaskStore) UpdateStatus(localID string, status models.TaskStatus, errMsg string) (bool, error) {
	const funcName = "TaskStore.UpdateStatus"

	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists {
		return false, errs.ErrTaskNotFound
	}

	if !canTransition(task.Status, status) {
		logger.Debug("ignoring stale status transition",
			zap.String("function", funcName),
			zap.String("local_id", localID),
			zap.String("current", string(task.Status)),
			zap.String("rejected", string(status)),
		)
		return false, nil
	}

	oldStatus := task.Status
	task.Status = status

	now := time.Now()
	switch {
	case status == models.StatusProcessing:
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
	case status.Terminal():
		if task.CompletedAt == nil {
			task.CompletedAt = &now
		}
		if status == models.StatusCompleted {
			task.Progress = 100
		}
		if errMsg != "" {
			task.Error = errMsg
		}
		s.releaseHandlesLocked(localID)
	}

	logger.Info("task status updated",
		zap.String("function", funcName),
		zap.String("local_id", localID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)

	return true, nil
}

// SetProgress records a progress hint. Progress is monotone non-decreasing
// and only meaningful while the task is processing.
func (s *TaskStore) SetProgress(localID string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists {
		return errs.ErrTaskNotFound
	}

	if task.Status == models.StatusProcessing && progress > task.Progress {
		if progress > 100 {
			progress = 100
		}
		task.Progress = progress
	}

	return nil
}

// AppendLog appends one log line. Lines are never truncated or reordered.
func (s *TaskStore) AppendLog(localID, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists {
		return errs.ErrTaskNotFound
	}

	task.Logs = append(task.Logs, line)
	return nil
}

// RegisterPoller records the stop handle for a task's polling loop. At most
// one poller may exist per task, and a task that is not processing cannot
// acquire one: in that case the handle is stopped before returning so the
// caller's loop never runs.
func (s *TaskStore) RegisterPoller(localID string, stop func()) error {
	return s.registerHandle(localID, stop, s.pollers)
}

// RegisterStream records the stop handle for a task's log subscription,
// under the same rules as RegisterPoller.
func (s *TaskStore) RegisterStream(localID string, stop func()) error {
	return s.registerHandle(localID, stop, s.streams)
}

func (s *TaskStore) registerHandle(localID string, stop func(), table map[string]func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[localID]
	if !exists || s.closed {
		stop()
		if !exists {
			return errs.ErrTaskNotFound
		}
		return errs.ErrStoreClosed
	}

	if task.Status != models.StatusProcessing {
		stop()
		return errs.ErrTaskNotActive
	}

	if _, exists := table[localID]; exists {
		stop()
		return errs.ErrTrackerExists
	}

	table[localID] = stop
	return nil
}

func (s *TaskStore) releaseHandlesLocked(localID string) {
	if stop, exists := s.pollers[localID]; exists {
		stop()
		delete(s.pollers, localID)
	}
	if stop, exists := s.streams[localID]; exists {
		stop()
		delete(s.streams, localID)
	}
}

// ReleaseHandles stops and forgets the task's poller and stream, if any.
func (s *TaskStore) ReleaseHandles(localID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseHandlesLocked(localID)
}

// RemoveTask drops the task from the store unconditionally, releasing its
// handles first.
func (s *TaskStore) RemoveTask(localID string) error {
	const funcName = "TaskStore.RemoveTask"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[localID]; !exists {
		return errs.ErrTaskNotFound
	}

	s.releaseHandlesLocked(localID)
	delete(s.tasks, localID)
	delete(s.backendID, localID)

	for i, id := range s.order {
		if id == localID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	logger.Info("task removed",
		zap.String("function", funcName),
		zap.String("local_id", localID),
		zap.Int("remaining", len(s.tasks)),
	)

	return nil
}

func (s *TaskStore) activeCountLocked() int {
	count := 0
	for _, task := range s.tasks {
		if !task.Status.Terminal() {
			count++
		}
	}
	return count
}

// ActiveCount reports the number of non-terminal tasks, used for client-side
// admission control.
func (s *TaskStore) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeCountLocked()
}

func (s *TaskStore) MaxActive() int {
	return s.maxActive
}

// Close tears the store down: every outstanding poller and stream is
// stopped, and no new tasks or handles are accepted afterwards.
func (s *TaskStore) Close() {
	const funcName = "TaskStore.Close"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	for localID := range s.tasks {
		s.releaseHandlesLocked(localID)
	}

	logger.Info("task store closed",
		zap.String("function", funcName),
		zap.Int("tasks", len(s.tasks)),
	)
}
