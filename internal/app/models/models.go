package models

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	StatusQueued      TaskStatus = "queued"
	StatusProcessing  TaskStatus = "processing"
	StatusCompleted   TaskStatus = "completed"
	StatusFailed      TaskStatus = "failed"
	StatusRateLimited TaskStatus = "rate_limited"
	StatusCancelled   TaskStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s TaskStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRateLimited, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes backend status strings, including the aliases
// older backend revisions emitted.
func ParseStatus(raw string) TaskStatus {
	switch raw {
	case "pending", "waiting":
		return StatusQueued
	case "running":
		return StatusProcessing
	case "done":
		return StatusCompleted
	}
	return TaskStatus(raw)
}

type TaskKind string

const (
	KindScrape   TaskKind = "scrape"
	KindCleaning TaskKind = "cleaning"
)

// InputSpec describes what a task operates on. Config is kept as an opaque
// blob: the backend validates it, and its shape was still evolving across
// backend revisions.
type InputSpec struct {
	Kind        TaskKind        `json:"kind"`
	Description string          `json:"description,omitempty"`
	Config      json.RawMessage `json:"config"`
}

// FilterCondition pre-filters posts by a metric before labeling.
type FilterCondition struct {
	Metric   string `json:"metric"`
	Operator string `json:"operator"`
	Value    int    `json:"value"`
}

type LabelCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LabelCondition configures the AI labeling pass.
type LabelCondition struct {
	ImageTarget string          `json:"image_target,omitempty"`
	TextTarget  string          `json:"text_target,omitempty"`
	Categories  []LabelCategory `json:"categories,omitempty"`
	Prompt      string          `json:"prompt"`
}

// CleaningConfig is the submit payload for a cleaning task.
type CleaningConfig struct {
	SourceFiles    []string         `json:"source_files"`
	FilterBy       *FilterCondition `json:"filter_by,omitempty"`
	LabelBy        *LabelCondition  `json:"label_by,omitempty"`
	OutputFilename string           `json:"output_filename,omitempty"`
}

// ScrapeConfig is the submit payload for a scrape task.
type ScrapeConfig struct {
	AccountID   int64  `json:"account_id"`
	Keyword     string `json:"keyword"`
	MaxPosts    int    `json:"max_posts"`
	MinLikes    int    `json:"min_likes"`
	MinCollects int    `json:"min_collects"`
	MinComments int    `json:"min_comments"`
}

// Task is one backend job tracked by the client. LocalID is generated at
// submission time and never reused; BackendID is set once the backend
// accepts the task and never changes afterwards.
type Task struct {
	LocalID     string     `json:"local_id"`
	BackendID   string     `json:"backend_id,omitempty"`
	Kind        TaskKind   `json:"kind"`
	Spec        InputSpec  `json:"spec"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	Logs        []string   `json:"logs,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Clone returns a snapshot safe to hand to readers while the store keeps
// mutating the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.Logs != nil {
		c.Logs = make([]string, len(t.Logs))
		copy(c.Logs, t.Logs)
	}
	if t.StartedAt != nil {
		ts := *t.StartedAt
		c.StartedAt = &ts
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}

// StatusReport is the poll response for a single task.
type StatusReport struct {
	Status     TaskStatus `json:"status"`
	Progress   int        `json:"progress"`
	Error      string     `json:"error,omitempty"`
	OutputFile string     `json:"output_file,omitempty"`
}

// PersistedTask is a backend task record, fetched only for reload recovery.
type PersistedTask struct {
	TaskID      string          `json:"task_id"`
	Kind        TaskKind        `json:"task_type"`
	Status      string          `json:"status"`
	Progress    int             `json:"progress"`
	Error       string          `json:"error,omitempty"`
	Description string          `json:"description,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

type ResultFile struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// StreamEvent is one frame from a server-sent event stream. Task-scoped
// streams emit connected/log/status frames; the global browser stream emits
// connected/browser_opened/browser_closed/browser_login_created/account_deleted.
type StreamEvent struct {
	Type      string     `json:"type"`
	Message   string     `json:"message,omitempty"`
	Status    TaskStatus `json:"status,omitempty"`
	AccountID int64      `json:"account_id,omitempty"`
}

const (
	EventConnected           = "connected"
	EventLog                 = "log"
	EventStatus              = "status"
	EventBrowserOpened       = "browser_opened"
	EventBrowserClosed       = "browser_closed"
	EventBrowserLoginCreated = "browser_login_created"
	EventAccountDeleted      = "account_deleted"
)

// SubmitRequest is the dashboard-facing submit payload.
type SubmitRequest struct {
	Type        TaskKind        `json:"type"`
	Description string          `json:"description,omitempty"`
	Cleaning    *CleaningConfig `json:"cleaning,omitempty"`
	Scrape      *ScrapeConfig   `json:"scrape,omitempty"`
}

// TaskResponse is the compact task shape for list views.
type TaskResponse struct {
	LocalID     string     `json:"local_id"`
	BackendID   string     `json:"backend_id,omitempty"`
	Kind        TaskKind   `json:"kind"`
	Status      TaskStatus `json:"status"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LogsCount   int        `json:"logs_count"`
}
