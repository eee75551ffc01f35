package services

import (
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogActivity appends an audit record. Fire-and-forget: a failed write is
// logged but never fails the action that triggered it.
func LogActivity(db *gorm.DB, userID uuid.UUID, action, description string, ipAddress, userAgent string) {
	entry := models.AuditLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		UserAgent:   userAgent,
	}
	if ipAddress != "" {
		entry.IPAddress = &ipAddress
	}

	if err := db.Create(&entry).Error; err != nil {
		logging.L().Errorw("Failed to write audit log",
			"action", action, "user_id", userID, "error", err)
	}
}
