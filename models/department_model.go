package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Department struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code                string    `gorm:"size:10;not null;unique" json:"code"`
	Name                string    `gorm:"size:200;not null" json:"name"`
	CourseDurationYears int       `gorm:"not null;default:4" json:"course_duration_years"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
