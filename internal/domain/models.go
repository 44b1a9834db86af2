// Package domain defines the persistence models for moderation state: the
// warnings issued against users and each user's engagement (XP/level)
// record. These types are mapped with GORM and form the durable data layer
// of the guardian service.
package domain

import (
	"time"
)

// Warning represents a single moderator-issued warning against a user.
// Warnings are append-only: they are never mutated or deleted by the
// moderation core, and their insertion order is their issue order.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the warned user; indexed for per-user listing.
//   - Reason: free-form text supplied by the moderator.
//   - CreatedAt: timestamp managed by GORM; also the ordering key.
type Warning struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_warns"`
	Reason    string    `json:"reason"     gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Warning.
func (Warning) TableName() string { return "warns" }

// UserLevel represents a user's accumulated engagement: experience points
// and the level derived from them. One row per user, created lazily on the
// user's first observed message and never deleted.
//
// Invariants:
//   - XP and Level are non-negative.
//   - XP is monotonically non-decreasing for a given level.
//   - A level transition occurs exactly when XP reaches (level+1) times the
//     configured per-level XP step; at most one transition per message.
//
// Fields:
//   - UserID: identifier of the user; primary key (one engagement row each).
//   - XP: accumulated experience points.
//   - Level: current level derived from XP.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type UserLevel struct {
	UserID    string    `json:"user_id" gorm:"type:varchar(64);primaryKey"`
	XP        int       `json:"xp"      gorm:"not null;default:0;check:xp >= 0"`
	Level     int       `json:"level"   gorm:"not null;default:0;check:level >= 0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserLevel.
func (UserLevel) TableName() string { return "levels" }
