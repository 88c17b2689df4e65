package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

const defaultReconnectBackoff = 3 * time.Second

// Policy controls what a subscription does when its channel ends.
type Policy int

const (
	// PolicyCloseOnTerminal closes the channel permanently once a terminal
	// status frame arrives, or on any transport failure. Used for per-task
	// log streams: a finished task has no more logs to recover.
	PolicyCloseOnTerminal Policy = iota
	// PolicyReconnect retries forever with a fixed backoff. Used for the
	// global browser event stream, which has no terminal state.
	PolicyReconnect
)

// Subscriber opens server-sent-event channels against the backend.
type Subscriber struct {
	baseURL    string
	httpClient *http.Client
	backoff    time.Duration
}

func CreateSubscriber(baseURL string, httpClient *http.Client) *Subscriber {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Subscriber{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		backoff:    defaultReconnectBackoff,
	}
}

// Subscription is a handle on one open channel. Unsubscribe is idempotent
// and safe to call after the channel has closed on its own.
type Subscription struct {
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Done is closed when the reader goroutine has fully exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe opens the channel at path and delivers decoded frames to
// onEvent in arrival order. For PolicyCloseOnTerminal, onClose fires exactly
// once: with the terminal status the backend reported, or with StatusFailed
// and a transport error if the connection dropped first. For
// PolicyReconnect, onClose is never called and the channel is reopened after
// a fixed backoff for as long as the subscription lives.
func (s *Subscriber) Subscribe(path string, policy Policy, onEvent func(models.StreamEvent), onClose func(models.TaskStatus, error)) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var closeOnce sync.Once
	finish := func(status models.TaskStatus, err error) {
		closeOnce.Do(func() {
			if onClose != nil {
				onClose(status, err)
			}
		})
	}

	go func() {
		defer close(sub.done)
		defer cancel()

		for {
			terminal, err := s.consume(ctx, path, onEvent)
			if terminal != "" {
				finish(terminal, nil)
				return
			}

			if ctx.Err() != nil {
				// Unsubscribed: natural closure, no completion callback.
				return
			}

			if policy == PolicyReconnect {
				logger.Warn("event stream dropped, reconnecting",
					zap.String("path", path),
					zap.Duration("backoff", s.backoff),
					zap.Error(err),
				)
				select {
				case <-ctx.Done():
					return
				case <-time.After(s.backoff):
				}
				continue
			}

			finish(models.StatusFailed, fmt.Errorf("%w: %v", errs.ErrStreamTransport, err))
			return
		}
	}()

	return sub
}

// consume reads one connection until it ends. It returns the terminal status
// if one was observed, otherwise the transport error that ended the read.
func (s *Subscriber) consume(ctx context.Context, path string, onEvent func(models.StreamEvent)) (models.TaskStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stream endpoint returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var event models.StreamEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			// A single bad frame must not kill the stream.
			logger.Warn("dropping malformed stream frame",
				zap.String("path", path),
				zap.String("payload", payload),
				zap.Error(err),
			)
			continue
		}

		if onEvent != nil {
			onEvent(event)
		}

		if event.Type == models.EventStatus {
			status := models.ParseStatus(string(event.Status))
			if status.Terminal() {
				return status, nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("stream closed by backend")
}

// StreamTaskLogs opens the log channel for one task and adapts it to the
// TaskStreamer contract consumed by the lifecycle controller.
func (s *Subscriber) StreamTaskLogs(kind models.TaskKind, backendID string, onEvent func(models.StreamEvent), onClose func(models.TaskStatus, error)) func() {
	path := "/cleaning/logs/" + backendID
	if kind == models.KindScrape {
		path = "/scrape/logs/" + backendID
	}

	sub := s.Subscribe(path, PolicyCloseOnTerminal, onEvent, onClose)
	return sub.Unsubscribe
}
