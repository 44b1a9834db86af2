// Package repo implements the data persistence layer for moderation
// entities, backed by GORM. This file provides repository functions for the
// UserLevel model.
//
// The repository follows a "thin" approach: it performs persistence and
// simple query composition, leaving business rules (the leveling step, the
// per-user write interlock) to the services package.
//
// Error semantics:
//   - On DB errors (connectivity, constraints, etc.), the raw gorm error is
//     propagated. The service layer translates these into
//     services.ErrStoreUnavailable.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
)

// GetOrCreateLevel returns the engagement row for userID, creating the lazy
// default (xp=0, level=0) when the user has never been seen.
//
// Creation is atomic: the user_id primary key plus FirstOrCreate guarantees
// that concurrent first-touch cannot produce two divergent rows. Callers
// that go on to modify the row must additionally hold the per-user lock so
// the read-modify-write sequence is serialized.
func GetOrCreateLevel(ctx context.Context, db *gorm.DB, userID string) (*domain.UserLevel, error) {
	lvl := domain.UserLevel{UserID: userID}
	err := db.WithContext(ctx).
		Where(&domain.UserLevel{UserID: userID}).
		FirstOrCreate(&lvl).Error
	if err != nil {
		return nil, err
	}
	return &lvl, nil
}

// GetLevel returns the engagement row for userID, or gorm.ErrRecordNotFound
// when the user has never sent a message.
func GetLevel(ctx context.Context, db *gorm.DB, userID string) (*domain.UserLevel, error) {
	var lvl domain.UserLevel
	if err := db.WithContext(ctx).First(&lvl, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &lvl, nil
}

// UpdateLevel persists the advanced engagement state for userID.
//
// The write overwrites xp and level with the computed values rather than
// incrementing in place, which makes a retry of the same message's update
// idempotent.
func UpdateLevel(ctx context.Context, db *gorm.DB, userID string, xp, level int) error {
	return db.WithContext(ctx).
		Model(&domain.UserLevel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"xp": xp, "level": level}).Error
}
