package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-scoreboard/metrics"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
)

// Deps are the collaborators shared by every engine service.
type Deps struct {
	Store    *repositories.Store
	Notifier Notifier
	Metrics  metrics.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	d.Notifier = notifierOrNop(d.Notifier)
	if d.Metrics == nil {
		d.Metrics = metrics.NewMock()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return d
}

// observe records duration and, for failures, the rejection kind. Rejections log at warn,
// anything unclassified at error.
func (d Deps) observe(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	d.Metrics.ObserveOperationDuration(op, time.Since(start).Seconds())
	if err == nil {
		return
	}
	kind := errorKind(err)
	d.Metrics.IncRejected(op, kind)
	attrs = append(attrs, slog.String("operation", op), slog.String("kind", kind), slog.Any("error", err))
	level := slog.LevelWarn
	if kind == "internal" {
		level = slog.LevelError
	}
	d.Logger.LogAttrs(ctx, level, "operation rejected", attrs...)
}

func checkCompetition(c models.Competition) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCompetition, c)
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrPlayerNameRequired
	}
	return name, nil
}

// handleRepositoryError maps storage not-found errors onto the service taxonomy.
func handleRepositoryError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %s", ErrMatchNotFound, subject)
	case errors.Is(err, repositories.ErrGroupNotFound):
		return fmt.Errorf("%w: %s", ErrGroupNotFound, subject)
	case errors.Is(err, repositories.ErrSurvivalNotFound):
		return fmt.Errorf("%w: %s", ErrSurvivalNotFound, subject)
	case errors.Is(err, repositories.ErrMatchInvalidRouting),
		errors.Is(err, repositories.ErrMatchUnknownTarget):
		return fmt.Errorf("bracket graph is inconsistent at %s: %w", subject, err)
	default:
		return fmt.Errorf("storage error for %s: %w", subject, err)
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
