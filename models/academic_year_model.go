package models

import (
	"time"

	"github.com/google/uuid"
)

// AcademicYear is a single-row configuration record. CurrentYear holds the
// starting year of the running academic year (2024 means 2024-25).
type AcademicYear struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CurrentYear int        `gorm:"not null" json:"current_year"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UpdatedByID *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
}
