package service

import (
	"time"

	"contactbook/contacts-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResendCleanup periodically drops resend-cooldown rows whose window
// has long passed so the table doesn't grow forever
func ResendCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Resend cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			err := db.
				Where("cooldown < ?", time.Now()).
				Delete(&model.ResendRequest{}).
				Error
			if err != nil {
				zap.L().Error("Failed to cleanup resend requests", zap.Error(err))
			}
		}
	}()
}
