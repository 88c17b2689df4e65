package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected TaskStatus
	}{
		{raw: "pending", expected: StatusQueued},
		{raw: "waiting", expected: StatusQueued},
		{raw: "running", expected: StatusProcessing},
		{raw: "done", expected: StatusCompleted},
		{raw: "queued", expected: StatusQueued},
		{raw: "processing", expected: StatusProcessing},
		{raw: "completed", expected: StatusCompleted},
		{raw: "failed", expected: StatusFailed},
		{raw: "rate_limited", expected: StatusRateLimited},
		{raw: "cancelled", expected: StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStatus(tt.raw))
		})
	}
}

func TestTaskStatus_Terminal(t *testing.T) {
	assert.False(t, StatusQueued.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusRateLimited.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestTask_Clone(t *testing.T) {
	started := time.Now()
	task := &Task{
		LocalID:   "local-1",
		Status:    StatusProcessing,
		Logs:      []string{"a", "b"},
		StartedAt: &started,
	}

	clone := task.Clone()
	clone.Logs[0] = "mutated"
	*clone.StartedAt = clone.StartedAt.Add(time.Hour)
	clone.Status = StatusCompleted

	assert.Equal(t, "a", task.Logs[0])
	assert.Equal(t, started, *task.StartedAt)
	assert.Equal(t, StatusProcessing, task.Status)
}
