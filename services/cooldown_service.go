package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/aurcc/hostel_bonafide/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetSettings returns the single bonafide settings row, creating it with the
// default cooldown on first access.
func GetSettings(db *gorm.DB) (*models.BonafideSettings, error) {
	var settings models.BonafideSettings
	err := db.Where(models.BonafideSettings{ID: 1}).
		Attrs(models.BonafideSettings{CooldownPeriod: models.CooldownThreeMonths}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetAcademicYear returns the single academic-year row, creating it for the
// current calendar year on first access.
func GetAcademicYear(db *gorm.DB) (*models.AcademicYear, error) {
	var year models.AcademicYear
	err := db.Where(models.AcademicYear{ID: 1}).
		Attrs(models.AcademicYear{CurrentYear: time.Now().Year()}).
		FirstOrCreate(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// CheckCooldown rejects a new request while the student's most recent
// dean-approved request is still inside the configured cooldown window.
// Rejected requests never count.
func CheckCooldown(db *gorm.DB, studentID uuid.UUID, settings *models.BonafideSettings) error {
	cooldownDays := settings.CooldownDays()
	if cooldownDays == 0 {
		return nil
	}

	var lastApproved models.BonafideRequest
	err := db.Where("student_id = ? AND status = ?", studentID, models.StatusDeanApproved).
		Order("dean_review_date DESC").
		First(&lastApproved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if lastApproved.DeanReviewDate == nil {
		return nil
	}

	daysSinceApproval := int(time.Since(*lastApproved.DeanReviewDate).Hours() / 24)
	if daysSinceApproval >= cooldownDays {
		return nil
	}

	return &CooldownError{
		Message: fmt.Sprintf("You can reapply after %s from your last approval",
			settings.CooldownDisplay()),
		DaysRemaining:    cooldownDays - daysSinceApproval,
		CanReapplyDate:   lastApproved.DeanReviewDate.AddDate(0, 0, cooldownDays).Format("2006-01-02"),
		LastApprovedDate: lastApproved.DeanReviewDate.Format("2006-01-02"),
	}
}
