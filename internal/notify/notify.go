package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/logger"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// DefaultCapacity bounds how many notifications a Feed keeps.
const DefaultCapacity = 20

type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"type"`
	At       time.Time `json:"at"`
}

// Notifier is the one-way channel to the presentation layer. Implementations
// must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// Feed keeps the latest notifications for the presentation layer to poll.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	now      func() time.Time
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, now: time.Now}
}

func (f *Feed) Notify(ctx context.Context, message string, severity Severity) {
	n := Notification{Message: message, Severity: severity, At: f.now()}

	f.mu.Lock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = f.items[over:]
	}
	f.mu.Unlock()

	logger.FromCtx(ctx).Info("notification",
		zap.String("message", message),
		zap.String("severity", string(severity)),
	)
}

// Drain returns every pending notification, oldest first, and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}
