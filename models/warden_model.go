package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Warden struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	HostelID    uuid.UUID `gorm:"type:uuid;not null" json:"hostel_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Designation string    `gorm:"size:200;default:'Deputy Warden'" json:"designation"`
	PhoneNumber string    `gorm:"size:15" json:"phone_number"`
	Email       string    `gorm:"size:255" json:"email"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Hostel Hostel `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Warden) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
