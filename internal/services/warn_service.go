// Package services – WarnService
//
// This file implements the moderator-facing warning surface and the level
// query used by command glue. The command parsing itself (prefix handling,
// permission checks) lives in the transport layer; these methods are the
// durable operations it calls into.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
	"github.com/nqAtomic/my-discord-bott/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WarnService owns the warning append/list operations and level lookups.
type WarnService struct {
	DB *gorm.DB
}

// Warn appends a warning against userID and returns its generated ID.
// The reason must be non-blank; store failures surface as
// ErrStoreUnavailable.
func (s *WarnService) Warn(ctx context.Context, userID, reason string) (string, error) {
	tr := otel.Tracer("services/WarnService")
	ctx, span := tr.Start(ctx, "Warn",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(reason) == "" {
		return "", ErrEmptyReason
	}
	w, err := repo.CreateWarning(ctx, s.DB, userID, reason)
	if err != nil {
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	return w.ID, nil
}

// ListWarnings returns all warnings for userID in issue order. Calling it
// twice without intervening writes yields identical sequences.
func (s *WarnService) ListWarnings(ctx context.Context, userID string) ([]domain.Warning, error) {
	tr := otel.Tracer("services/WarnService")
	ctx, span := tr.Start(ctx, "ListWarnings",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	out, err := repo.ListWarnings(ctx, s.DB, userID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return out, nil
}

// LevelOf returns the engagement record for userID, or ErrUnknownUser when
// the user has never sent a processed message.
func (s *WarnService) LevelOf(ctx context.Context, userID string) (*domain.UserLevel, error) {
	tr := otel.Tracer("services/WarnService")
	ctx, span := tr.Start(ctx, "LevelOf",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	lvl, err := repo.GetLevel(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return lvl, nil
}
