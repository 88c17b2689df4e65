package stream

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"xhsops/internal/app/models"
	"xhsops/internal/utils/logger"
)

// BrowserWatcher follows the global browser event stream and keeps the set
// of accounts with an open browser. The stream has no terminal state, so the
// subscription reconnects forever until Stop.
type BrowserWatcher struct {
	mu   sync.Mutex
	open map[int64]bool
	sub  *Subscription
}

func CreateBrowserWatcher() *BrowserWatcher {
	return &BrowserWatcher{
		open: make(map[int64]bool),
	}
}

// Start subscribes to /browsers/events on the given subscriber. Calling
// Start twice replaces the previous subscription.
func (w *BrowserWatcher) Start(s *Subscriber) {
	const funcName = "BrowserWatcher.Start"

	w.mu.Lock()
	if w.sub != nil {
		w.sub.Unsubscribe()
	}
	w.sub = s.Subscribe("/browsers/events", PolicyReconnect, w.handleEvent, nil)
	w.mu.Unlock()

	logger.Info("browser event watcher started",
		zap.String("function", funcName),
	)
}

func (w *BrowserWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.sub != nil {
		w.sub.Unsubscribe()
		w.sub = nil
	}
}

func (w *BrowserWatcher) handleEvent(event models.StreamEvent) {
	const funcName = "BrowserWatcher.handleEvent"

	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Type {
	case models.EventConnected:
		// Informational only.
	case models.EventBrowserOpened, models.EventBrowserLoginCreated:
		w.open[event.AccountID] = true
	case models.EventBrowserClosed, models.EventAccountDeleted:
		delete(w.open, event.AccountID)
	default:
		logger.Debug("ignoring unknown browser event",
			zap.String("function", funcName),
			zap.String("type", event.Type),
		)
		return
	}

	logger.Debug("browser state updated",
		zap.String("function", funcName),
		zap.String("type", event.Type),
		zap.Int64("account_id", event.AccountID),
		zap.Int("open_browsers", len(w.open)),
	)
}

func (w *BrowserWatcher) OpenBrowsers() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]int64, 0, len(w.open))
	for id := range w.open {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (w *BrowserWatcher) IsOpen(accountID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.open[accountID]
}
