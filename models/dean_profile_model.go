package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeanProfile carries the contact block printed on certificates.
type DeanProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Designation string    `gorm:"size:200;default:'Dean-Regional Campus (Warden)'" json:"designation"`
	PhoneNumber string    `gorm:"size:15" json:"phone_number"`
	Email       string    `gorm:"size:255" json:"email"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DeanProfile) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
