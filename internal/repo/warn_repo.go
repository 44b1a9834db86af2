// Package repo implements the data persistence layer for moderation
// entities, backed by GORM. This file provides repository functions for the
// Warning model.
//
// Warnings are append-only: there is no update or delete path. Listing
// returns insertion order, which doubles as issue order.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
)

// CreateWarning appends a warning row for the given user and returns it.
//
// The ID is generated here (UUIDv4) so the caller can reference the
// warning immediately. Appends are naturally idempotent-safe to retry:
// a duplicate insert creates a second warning rather than corrupting an
// existing one, matching at-least-once delivery from the caller.
func CreateWarning(ctx context.Context, db *gorm.DB, userID, reason string) (*domain.Warning, error) {
	w := &domain.Warning{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// ListWarnings returns all warnings for userID in insertion order. The
// result is empty (not nil-checked by callers) when the user has none.
func ListWarnings(ctx context.Context, db *gorm.DB, userID string) ([]domain.Warning, error) {
	var out []domain.Warning
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
