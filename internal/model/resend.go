package model

import "time"

// ResendRequest tracks when a user last asked for a new verification
// mail so requests inside the cooldown window can be rejected.
type ResendRequest struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	UserID     string `gorm:"index"`
	LastResend time.Time
	Cooldown   time.Time
}
