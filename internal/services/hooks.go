package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/apperrors"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/repository"
)

// ImageRemover deletes stored images that are no longer referenced.
type ImageRemover interface {
	DeleteImage(publicPath string) error
}

// CascadeObserver is told about every completed cascading delete.
type CascadeObserver interface {
	CascadeDeleted(entity string, themes, memberships, headsCleared int64)
}

// Hooks are the side effects a mutation may trigger after it commits. Any of
// them may be nil.
type Hooks struct {
	Notifier Notifier
	Images   ImageRemover
	Cascades CascadeObserver
}

func (h Hooks) notify(ctx context.Context, e Event) {
	notify(ctx, h.Notifier, e)
}

// replaceImage removes old once it has been superseded by current.
func (h Hooks) replaceImage(old, current *string) {
	if old == nil || *old == "" {
		return
	}
	if current != nil && *current == *old {
		return
	}
	h.removeImage(*old)
}

func (h Hooks) removeImage(publicPath string) {
	if h.Images == nil || publicPath == "" {
		return
	}
	if err := h.Images.DeleteImage(publicPath); err != nil {
		logger.Warn().Err(err).Str("path", publicPath).Msg("failed to delete image")
	}
}

func (h Hooks) cascaded(entity string, res repository.CascadeResult) {
	logger.Info().
		Str("entity", entity).
		Int64("themes", res.Themes).
		Int64("memberships", res.Memberships).
		Int64("heads_cleared", res.HeadsCleared).
		Msg("cascade delete committed")

	if h.Cascades != nil {
		h.Cascades.CascadeDeleted(entity, res.Themes, res.Memberships, res.HeadsCleared)
	}
}

// requireText trims value and rejects it when empty or longer than max runes.
// A max of zero means unbounded.
func requireText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.Validation(fmt.Sprintf("%s is required", field))
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return "", apperrors.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return value, nil
}

// requireLine is requireText for single-line fields such as names, which end
// up in email headers. Control characters are rejected.
func requireLine(field, value string, max int) (string, error) {
	value, err := requireText(field, value, max)
	if err != nil {
		return "", err
	}
	if strings.IndexFunc(value, unicode.IsControl) >= 0 {
		return "", apperrors.Validation(fmt.Sprintf("%s must not contain line breaks or control characters", field))
	}
	return value, nil
}

// optionalText normalises an optional string: blank becomes nil.
func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// uniqueIDs drops repeats while keeping first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
