// Package repo implements the data persistence layer for moderation
// entities, backed by GORM. This file provides the aggregate queries used
// by the read-only status dashboard. Each function is context-aware and
// has no consistency requirement beyond correctness at call time.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
)

// CountWarnings returns the total number of warning rows across all users.
func CountWarnings(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Warning{}).Count(&n).Error
	return n, err
}

// CountLeveledUsers returns the number of distinct users that have an
// engagement row.
func CountLeveledUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.UserLevel{}).
		Distinct("user_id").
		Count(&n).Error
	return n, err
}
