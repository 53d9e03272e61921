package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ukuvago/themeboard/internal/logger"
)

type EntityType string

const (
	EntityProject EntityType = "project"
	EntityTheme   EntityType = "theme"
)

func (t EntityType) Title() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

type Action string

const (
	ActionAdded   Action = "Added"
	ActionUpdated Action = "Updated"
)

func (a Action) Lower() string {
	return strings.ToLower(string(a))
}

// Event describes a successful create or update.
type Event struct {
	EntityType  EntityType `json:"entity_type"`
	EntityName  string     `json:"entity_name"`
	Action      Action     `json:"action"`
	ProjectName string     `json:"project_name,omitempty"`
}

// Notifier receives change events.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }

// AsyncNotifier hands events to the wrapped notifier on a goroutine. Its
// Notify never fails; delivery errors are only logged.
type AsyncNotifier struct {
	next    Notifier
	timeout time.Duration
}

func NewAsyncNotifier(next Notifier, timeout time.Duration) *AsyncNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncNotifier{next: next, timeout: timeout}
}

func (n *AsyncNotifier) Notify(_ context.Context, e Event) error {
	go func() {
		// The request context is gone by the time delivery runs.
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := safeNotify(ctx, n.next, e); err != nil {
			logger.Error().Err(err).
				Str("entity_type", string(e.EntityType)).
				Str("entity_name", e.EntityName).
				Str("action", string(e.Action)).
				Msg("notification failed")
		}
	}()
	return nil
}

// notify is how services emit events: failures are logged and swallowed.
func notify(ctx context.Context, n Notifier, e Event) {
	if n == nil {
		return
	}
	if err := safeNotify(ctx, n, e); err != nil {
		logger.Warn().Err(err).Str("entity_name", e.EntityName).Msg("notification failed")
	}
}

func safeNotify(ctx context.Context, n Notifier, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panicked: %v", r)
		}
	}()
	return n.Notify(ctx, e)
}
