package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Client translates each backend operation into one HTTP call. It holds no
// state beyond the base URL and never leaks raw transport errors: every
// failure is wrapped into a sentinel from errs with a readable message.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func CreateClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SubmitTask(ctx context.Context, kind models.TaskKind, config json.RawMessage) (string, error) {
	const funcName = "Client.SubmitTask"
	logger.Debug("submitting task",
		zap.String("function", funcName),
		zap.String("kind", string(kind)),
	)

	path := "/cleaning/start"
	if kind == models.KindScrape {
		path = "/scrape/start"
	}

	body, err := c.do(ctx, http.MethodPost, path, config, errs.ErrSubmission)
	if err != nil {
		return "", err
	}

	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed response body", errs.ErrSubmission)
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("%w: backend returned no task id", errs.ErrSubmission)
	}

	logger.Info("task submitted",
		zap.String("function", funcName),
		zap.String("kind", string(kind)),
		zap.String("backend_id", resp.TaskID),
	)

	return resp.TaskID, nil
}

func (c *Client) FetchTaskStatus(ctx context.Context, kind models.TaskKind, backendID string) (*models.StatusReport, error) {
	const funcName = "Client.FetchTaskStatus"

	path := fmt.Sprintf("/cleaning/tasks/%s/status", backendID)
	if kind == models.KindScrape {
		path = fmt.Sprintf("/scrape/tasks/%s/status", backendID)
	}

	body, err := c.do(ctx, http.MethodGet, path, nil, errs.ErrStatusFetch)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Status   string `json:"status"`
		Progress int    `json:"progress"`
		Error    string `json:"error,omitempty"`
		Output   string `json:"output_file,omitempty"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response body", errs.ErrStatusFetch)
	}

	report := &models.StatusReport{
		Status:     models.ParseStatus(raw.Status),
		Progress:   raw.Progress,
		Error:      raw.Error,
		OutputFile: raw.Output,
	}

	logger.Debug("task status fetched",
		zap.String("function", funcName),
		zap.String("backend_id", backendID),
		zap.String("status", string(report.Status)),
		zap.Int("progress", report.Progress),
	)

	return report, nil
}

func (c *Client) ListPersistedTasks(ctx context.Context) ([]*models.PersistedTask, error) {
	const funcName = "Client.ListPersistedTasks"

	body, err := c.do(ctx, http.MethodGet, "/cleaning/tasks", nil, errs.ErrList)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Tasks []*models.PersistedTask `json:"tasks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response body", errs.ErrList)
	}

	logger.Info("persisted tasks listed",
		zap.String("function", funcName),
		zap.Int("count", len(resp.Tasks)),
	)

	return resp.Tasks, nil
}

func (c *Client) CancelTask(ctx context.Context, backendID string) error {
	const funcName = "Client.CancelTask"
	logger.Debug("cancelling task",
		zap.String("function", funcName),
		zap.String("backend_id", backendID),
	)

	path := fmt.Sprintf("/cleaning/tasks/%s/cancel", backendID)
	_, err := c.do(ctx, http.MethodPost, path, nil, errs.ErrCancel)
	return err
}

func (c *Client) DeleteTask(ctx context.Context, backendID string) error {
	const funcName = "Client.DeleteTask"
	logger.Debug("deleting task",
		zap.String("function", funcName),
		zap.String("backend_id", backendID),
	)

	path := fmt.Sprintf("/cleaning/tasks/%s", backendID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, errs.ErrDelete)
	return err
}

func (c *Client) ListResultFiles(ctx context.Context) ([]*models.ResultFile, error) {
	const funcName = "Client.ListResultFiles"

	body, err := c.do(ctx, http.MethodGet, "/scrape/results", nil, errs.ErrResultList)
	if err != nil {
		return nil, err
	}

	var files []*models.ResultFile
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("%w: malformed response body", errs.ErrResultList)
	}

	logger.Debug("result files listed",
		zap.String("function", funcName),
		zap.Int("count", len(files)),
	)

	return files, nil
}

func (c *Client) FetchResult(ctx context.Context, filename string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/scrape/results/"+filename, nil, errs.ErrResultFetch)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: result file is not valid JSON", errs.ErrResultFetch)
	}

	return json.RawMessage(body), nil
}

func (c *Client) DeleteResult(ctx context.Context, filename string) error {
	const funcName = "Client.DeleteResult"
	logger.Debug("deleting result file",
		zap.String("function", funcName),
		zap.String("filename", filename),
	)

	_, err := c.do(ctx, http.MethodDelete, "/scrape/results/"+filename, nil, errs.ErrResultDelete)
	return err
}

// do performs one request and returns the response body. Any failure mode
// (connection error, non-2xx, unreadable body) comes back wrapped in kind.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, kind error) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultRequestTimeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body", kind)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", kind, backendMessage(resp.StatusCode, body))
	}

	return body, nil
}

// backendMessage extracts a human-readable error from a backend response,
// falling back to the HTTP status when the body is not well-formed JSON.
func backendMessage(statusCode int, body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
		Text   string `json:"text"`
	}

	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return payload.Detail
		case payload.Error != "":
			return payload.Error
		case payload.Text != "":
			return payload.Text
		}
	}

	return fmt.Sprintf("backend returned status %d", statusCode)
}
