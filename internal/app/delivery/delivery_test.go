package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	mock_app "xhsops/internal/app/mocks"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	m.Run()
}

func TestTaskDelivery_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name: "CleaningAccepted",
			body: `{"type":"cleaning","description":"clean posts","cleaning":{"source_files":["posts.json"]}}`,
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().
					Submit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, spec models.InputSpec) (*models.Task, error) {
						assert.Equal(t, models.KindCleaning, spec.Kind)
						assert.Equal(t, "clean posts", spec.Description)
						return &models.Task{LocalID: "local-1", Kind: spec.Kind, Spec: spec, Status: models.StatusQueued}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body []byte) {
				var task models.Task
				assert.NoError(t, json.Unmarshal(body, &task))
				assert.Equal(t, "local-1", task.LocalID)
				assert.Equal(t, models.StatusQueued, task.Status)
			},
		},
		{
			name: "ScrapeAccepted",
			body: `{"type":"scrape","scrape":{"account_id":1,"keyword":"coffee","max_posts":50}}`,
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().
					Submit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, spec models.InputSpec) (*models.Task, error) {
						assert.Equal(t, models.KindScrape, spec.Kind)

						var cfg models.ScrapeConfig
						assert.NoError(t, json.Unmarshal(spec.Config, &cfg))
						assert.Equal(t, "coffee", cfg.Keyword)
						return &models.Task{LocalID: "local-2", Kind: spec.Kind, Status: models.StatusQueued}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "InvalidBody",
			body:           `{not json`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "UnknownType",
			body:           `{"type":"mining"}`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "CleaningWithoutSources",
			body:           `{"type":"cleaning","cleaning":{"source_files":[]}}`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ScrapeWithBadConfig",
			body:           `{"type":"scrape","scrape":{"account_id":0,"keyword":"coffee","max_posts":50}}`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "TooManyActiveTasks",
			body: `{"type":"cleaning","cleaning":{"source_files":["posts.json"]}}`,
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().
					Submit(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: current 3, max 3", errs.ErrMaxTasksReached))
				m.EXPECT().MaxActive().Return(3)
				m.EXPECT().ActiveCount().Return(3)
			},
			expectedStatus: http.StatusTooManyRequests,
			checkBody: func(t *testing.T, body []byte) {
				var resp map[string]any
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, float64(3), resp["max_tasks"])
				assert.Equal(t, float64(3), resp["active_now"])
				assert.NotEmpty(t, resp["suggestion"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			d.CreateTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestTaskDelivery_GetAllTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockController := mock_app.NewMockTaskController(ctrl)
	mockController.EXPECT().ListTasks().Return([]*models.Task{
		{LocalID: "local-1", Status: models.StatusProcessing, Progress: 40, Logs: []string{"a", "b"}},
		{LocalID: "local-2", Status: models.StatusCompleted, Progress: 100},
	})
	mockController.EXPECT().ActiveCount().Return(1)
	mockController.EXPECT().MaxActive().Return(3)

	d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w := httptest.NewRecorder()

	d.GetAllTasks(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count     int                   `json:"count"`
		Active    int                   `json:"active"`
		MaxActive int                   `json:"max_active"`
		Tasks     []models.TaskResponse `json:"tasks"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 1, resp.Active)
	assert.Equal(t, 3, resp.MaxActive)
	assert.Equal(t, "local-1", resp.Tasks[0].LocalID)
	assert.Equal(t, 2, resp.Tasks[0].LogsCount)
}

func TestTaskDelivery_GetTask(t *testing.T) {
	tests := []struct {
		name           string
		localID        string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
	}{
		{
			name:    "Found",
			localID: "local-1",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().GetTask("local-1").Return(&models.Task{LocalID: "local-1", Status: models.StatusProcessing}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "NotFound",
			localID: "missing",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().GetTask("missing").Return(nil, errs.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/"+tt.localID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.localID})
			w := httptest.NewRecorder()

			d.GetTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTaskDelivery_GetTaskLogs(t *testing.T) {
	tests := []struct {
		name         string
		task         *models.Task
		expectedLogs []string
	}{
		{
			name:         "WithLogs",
			task:         &models.Task{LocalID: "local-1", Logs: []string{"a", "b", "c"}},
			expectedLogs: []string{"a", "b", "c"},
		},
		{
			name:         "NoLogsYet",
			task:         &models.Task{LocalID: "local-1"},
			expectedLogs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			mockController.EXPECT().GetTask("local-1").Return(tt.task, nil)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/local-1/logs", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "local-1"})
			w := httptest.NewRecorder()

			d.GetTaskLogs(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			var resp struct {
				Count int      `json:"count"`
				Logs  []string `json:"logs"`
			}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, len(tt.expectedLogs), resp.Count)
			assert.Equal(t, tt.expectedLogs, resp.Logs)
		})
	}
}

func TestTaskDelivery_CancelTask(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
	}{
		{
			name: "Cancelled",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().Cancel(gomock.Any(), "local-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "AlreadyFinished",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().Cancel(gomock.Any(), "local-1").Return(errs.ErrTaskNotActive)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "NotFound",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().Cancel(gomock.Any(), "local-1").Return(errs.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/local-1/cancel", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "local-1"})
			w := httptest.NewRecorder()

			d.CancelTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTaskDelivery_DeleteTask(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
	}{
		{
			name: "Deleted",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().Delete(gomock.Any(), "local-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "StillRunning",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().Delete(gomock.Any(), "local-1").Return(errs.ErrTaskNotTerminal)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/local-1", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "local-1"})
			w := httptest.NewRecorder()

			d.DeleteTask(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTaskDelivery_GetResults(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "WithFiles",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().ListResults(gomock.Any()).Return([]*models.ResultFile{
					{Filename: "cleaned_posts.json", Size: 1024},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name: "Empty",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().ListResults(gomock.Any()).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name: "BackendUnavailable",
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().ListResults(gomock.Any()).Return(nil, fmt.Errorf("%w: backend returned status 502", errs.ErrResultList))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/results", nil)
			w := httptest.NewRecorder()

			d.GetResults(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp struct {
					Count int                  `json:"count"`
					Files []*models.ResultFile `json:"files"`
				}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCount, resp.Count)
				assert.NotNil(t, resp.Files)
			}
		})
	}
}

func TestTaskDelivery_GetResult(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockController := mock_app.NewMockTaskController(ctrl)
		mockController.EXPECT().
			GetResult(gomock.Any(), "posts.json").
			Return(json.RawMessage(`[{"title":"post"}]`), nil)

		d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/results/posts.json", nil)
		req = mux.SetURLVars(req, map[string]string{"filename": "posts.json"})
		w := httptest.NewRecorder()

		d.GetResult(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"title":"post"}]`, w.Body.String())
	})

	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockController := mock_app.NewMockTaskController(ctrl)
		mockController.EXPECT().
			GetResult(gomock.Any(), "missing.json").
			Return(nil, fmt.Errorf("%w: file not found", errs.ErrResultFetch))

		d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/results/missing.json", nil)
		req = mux.SetURLVars(req, map[string]string{"filename": "missing.json"})
		w := httptest.NewRecorder()

		d.GetResult(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskDelivery_DeleteResults(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*mock_app.MockTaskController)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name: "AllDeleted",
			body: `{"filenames":["a.json","b.json"]}`,
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().DeleteResult(gomock.Any(), "a.json").Return(nil)
				m.EXPECT().DeleteResult(gomock.Any(), "b.json").Return(nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp struct {
					Deleted int               `json:"deleted"`
					Failed  map[string]string `json:"failed"`
				}
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, 2, resp.Deleted)
				assert.Empty(t, resp.Failed)
			},
		},
		{
			name: "PartialFailure",
			body: `{"filenames":["a.json","b.json"]}`,
			mockSetup: func(m *mock_app.MockTaskController) {
				m.EXPECT().DeleteResult(gomock.Any(), "a.json").Return(nil)
				m.EXPECT().DeleteResult(gomock.Any(), "b.json").Return(fmt.Errorf("%w: file not found", errs.ErrResultDelete))
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp struct {
					Deleted int               `json:"deleted"`
					Failed  map[string]string `json:"failed"`
				}
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, 1, resp.Deleted)
				assert.Contains(t, resp.Failed, "b.json")
			},
		},
		{
			name:           "EmptyList",
			body:           `{"filenames":[]}`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "InvalidBody",
			body:           `{broken`,
			mockSetup:      func(m *mock_app.MockTaskController) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockController := mock_app.NewMockTaskController(ctrl)
			tt.mockSetup(mockController)

			d := CreateTaskDelivery(mockController, mock_app.NewMockBrowserState(ctrl))

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/results", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			d.DeleteResults(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestTaskDelivery_DeleteResults_TooMany(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	d := CreateTaskDelivery(mock_app.NewMockTaskController(ctrl), mock_app.NewMockBrowserState(ctrl))

	filenames := make([]string, maxBulkDelete+1)
	for i := range filenames {
		filenames[i] = fmt.Sprintf("file%d.json", i)
	}
	body, err := json.Marshal(map[string]any{"filenames": filenames})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/results", bytes.NewBuffer(body))
	w := httptest.NewRecorder()

	d.DeleteResults(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskDelivery_GetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockController := mock_app.NewMockTaskController(ctrl)
	mockController.EXPECT().ListTasks().Return([]*models.Task{
		{LocalID: "local-1", Status: models.StatusProcessing},
		{LocalID: "local-2", Status: models.StatusProcessing},
		{LocalID: "local-3", Status: models.StatusCompleted},
	})
	mockController.EXPECT().ActiveCount().Return(2)
	mockController.EXPECT().MaxActive().Return(3)

	mockBrowsers := mock_app.NewMockBrowserState(ctrl)
	mockBrowsers.EXPECT().OpenBrowsers().Return([]int64{7})

	d := CreateTaskDelivery(mockController, mockBrowsers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	d.GetStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total        int            `json:"total"`
		Active       int            `json:"active"`
		MaxActive    int            `json:"max_active"`
		ByStatus     map[string]int `json:"by_status"`
		OpenBrowsers int            `json:"open_browsers"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Active)
	assert.Equal(t, 3, resp.MaxActive)
	assert.Equal(t, 2, resp.ByStatus["processing"])
	assert.Equal(t, 1, resp.ByStatus["completed"])
	assert.Equal(t, 1, resp.OpenBrowsers)
}

func TestTaskDelivery_GetBrowsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBrowsers := mock_app.NewMockBrowserState(ctrl)
	mockBrowsers.EXPECT().OpenBrowsers().Return([]int64{3, 7})

	d := CreateTaskDelivery(mock_app.NewMockTaskController(ctrl), mockBrowsers)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/browsers", nil)
	w := httptest.NewRecorder()

	d.GetBrowsers(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count    int     `json:"count"`
		Browsers []int64 `json:"browsers"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []int64{3, 7}, resp.Browsers)
}
