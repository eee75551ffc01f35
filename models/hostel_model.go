package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HostelTypeBoys  = "boys"
	HostelTypeGirls = "girls"
)

type Hostel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Code       string    `gorm:"size:10;not null;unique" json:"code"`
	HostelType string    `gorm:"size:10;not null" json:"hostel_type"`
	Capacity   int       `gorm:"default:0" json:"capacity"`

	MessFeesPerYear          float64 `gorm:"type:numeric(10,2);default:0.00" json:"mess_fees_per_year"`
	EstablishmentFeesPerYear float64 `gorm:"type:numeric(10,2);default:0.00" json:"establishment_fees_per_year"`

	Wardens      []Warden      `gorm:"foreignKey:HostelID" json:"wardens,omitempty"`
	BankAccounts []BankAccount `gorm:"foreignKey:HostelID" json:"bank_accounts,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Hostel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
