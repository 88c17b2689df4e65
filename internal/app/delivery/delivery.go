package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"xhsops/internal/app"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
	"xhsops/internal/utils/responses"
	"xhsops/internal/utils/validate"
)

const maxBulkDelete = 20

// TaskDelivery is the dashboard-facing HTTP surface. It renders the task
// store through the controller and forwards user actions to it; it holds no
// state of its own.
type TaskDelivery struct {
	taskController app.TaskController
	browserState   app.BrowserState
}

func CreateTaskDelivery(taskController app.TaskController, browserState app.BrowserState) *TaskDelivery {
	return &TaskDelivery{
		taskController: taskController,
		browserState:   browserState,
	}
}

func (d *TaskDelivery) CreateTask(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.CreateTask"
	logger.Debug("creating new task", zap.String("function", funcName))

	req := models.SubmitRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.DoBadResponseAndLog(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validate.ValidateSubmitRequest(&req); err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	var (
		config []byte
		err    error
	)
	if req.Type == models.KindCleaning {
		config, err = json.Marshal(req.Cleaning)
	} else {
		config, err = json.Marshal(req.Scrape)
	}
	if err != nil {
		responses.DoBadResponseAndLog(w, http.StatusBadRequest, "invalid task configuration")
		return
	}

	spec := models.InputSpec{
		Kind:        req.Type,
		Description: req.Description,
		Config:      config,
	}

	task, err := d.taskController.Submit(r.Context(), spec)
	if err != nil {
		if errors.Is(err, errs.ErrMaxTasksReached) {
			responses.DoJSONResponse(w, map[string]any{
				"error":      err.Error(),
				"max_tasks":  d.taskController.MaxActive(),
				"active_now": d.taskController.ActiveCount(),
				"suggestion": "Wait for a running task to finish before submitting another",
			}, http.StatusTooManyRequests)
			return
		}
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	responses.DoJSONResponse(w, task, http.StatusCreated)
}

func (d *TaskDelivery) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetAllTasks"
	logger.Debug("getting all tasks",
		zap.String("function", funcName),
	)

	tasks := d.taskController.ListTasks()

	response := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, models.TaskResponse{
			LocalID:     task.LocalID,
			BackendID:   task.BackendID,
			Kind:        task.Kind,
			Status:      task.Status,
			Progress:    task.Progress,
			Error:       task.Error,
			Description: task.Spec.Description,
			CreatedAt:   task.CreatedAt,
			LogsCount:   len(task.Logs),
		})
	}

	responses.DoJSONResponse(w, map[string]any{
		"count":      len(response),
		"active":     d.taskController.ActiveCount(),
		"max_active": d.taskController.MaxActive(),
		"tasks":      response,
	}, http.StatusOK)
}

func (d *TaskDelivery) GetTask(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetTask"
	logger.Debug("getting task",
		zap.String("function", funcName),
	)

	localID := mux.Vars(r)["id"]

	task, err := d.taskController.GetTask(localID)
	if err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	responses.DoJSONResponse(w, task, http.StatusOK)
}

func (d *TaskDelivery) GetTaskLogs(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetTaskLogs"
	logger.Debug("getting task logs",
		zap.String("function", funcName),
	)

	localID := mux.Vars(r)["id"]

	task, err := d.taskController.GetTask(localID)
	if err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	logs := task.Logs
	if logs == nil {
		logs = []string{}
	}

	responses.DoJSONResponse(w, map[string]any{
		"count": len(logs),
		"logs":  logs,
	}, http.StatusOK)
}

func (d *TaskDelivery) CancelTask(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.CancelTask"
	logger.Debug("cancelling task",
		zap.String("function", funcName),
	)

	localID := mux.Vars(r)["id"]

	if err := d.taskController.Cancel(r.Context(), localID); err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	responses.DoJSONResponse(w, map[string]any{"success": true}, http.StatusOK)
}

func (d *TaskDelivery) DeleteTask(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.DeleteTask"
	logger.Debug("deleting task",
		zap.String("function", funcName),
	)

	localID := mux.Vars(r)["id"]

	if err := d.taskController.Delete(r.Context(), localID); err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	responses.DoJSONResponse(w, map[string]any{"success": true}, http.StatusOK)
}

func (d *TaskDelivery) GetResults(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetResults"
	logger.Debug("listing result files",
		zap.String("function", funcName),
	)

	files, err := d.taskController.ListResults(r.Context())
	if err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	if files == nil {
		files = []*models.ResultFile{}
	}

	responses.DoJSONResponse(w, map[string]any{
		"count": len(files),
		"files": files,
	}, http.StatusOK)
}

func (d *TaskDelivery) GetResult(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetResult"
	logger.Debug("fetching result file",
		zap.String("function", funcName),
	)

	filename := mux.Vars(r)["filename"]

	content, err := d.taskController.GetResult(r.Context(), filename)
	if err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		logger.Error("failed to write result file",
			zap.String("function", funcName),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func (d *TaskDelivery) DeleteResult(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.DeleteResult"
	logger.Debug("deleting result file",
		zap.String("function", funcName),
	)

	filename := mux.Vars(r)["filename"]

	if err := d.taskController.DeleteResult(r.Context(), filename); err != nil {
		responses.ResponseErrorAndLog(w, err, funcName)
		return
	}

	responses.DoJSONResponse(w, map[string]any{"success": true}, http.StatusOK)
}

// DeleteResults removes several result files in one request, fanning the
// backend calls out in parallel and reporting per-file failures instead of
// aborting on the first one.
func (d *TaskDelivery) DeleteResults(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.DeleteResults"
	logger.Debug("bulk deleting result files",
		zap.String("function", funcName),
	)

	req := struct {
		Filenames []string `json:"filenames"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responses.DoBadResponseAndLog(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Filenames) == 0 {
		responses.DoBadResponseAndLog(w, http.StatusBadRequest, "no filenames given")
		return
	}
	if len(req.Filenames) > maxBulkDelete {
		responses.DoBadResponseAndLog(w, http.StatusBadRequest, fmt.Sprintf("maximum %d files per request", maxBulkDelete))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	deleted := 0
	failed := make(map[string]string)
	mu := sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)
	for _, filename := range req.Filenames {
		filename := filename
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			err := d.taskController.DeleteResult(ctx, filename)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed[filename] = err.Error()
				logger.Warn("failed to delete result file",
					zap.String("filename", filename),
					zap.Error(err),
				)
			} else {
				deleted++
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		responses.DoBadResponseAndLog(w, http.StatusInternalServerError, "processing error")
		return
	}

	responses.DoJSONResponse(w, map[string]any{
		"deleted": deleted,
		"failed":  failed,
	}, http.StatusOK)
}

// GetStats reports the dashboard header numbers in one call.
func (d *TaskDelivery) GetStats(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetStats"
	logger.Debug("getting stats",
		zap.String("function", funcName),
	)

	tasks := d.taskController.ListTasks()
	byStatus := make(map[models.TaskStatus]int)
	for _, task := range tasks {
		byStatus[task.Status]++
	}

	responses.DoJSONResponse(w, map[string]any{
		"total":         len(tasks),
		"active":        d.taskController.ActiveCount(),
		"max_active":    d.taskController.MaxActive(),
		"by_status":     byStatus,
		"open_browsers": len(d.browserState.OpenBrowsers()),
	}, http.StatusOK)
}

func (d *TaskDelivery) GetBrowsers(w http.ResponseWriter, r *http.Request) {
	const funcName = "TaskDelivery.GetBrowsers"
	logger.Debug("getting open browsers",
		zap.String("function", funcName),
	)

	browsers := d.browserState.OpenBrowsers()

	responses.DoJSONResponse(w, map[string]any{
		"count":    len(browsers),
		"browsers": browsers,
	}, http.StatusOK)
}
