package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccountTypeEstablishment = "establishment"
	AccountTypeMess          = "mess"
)

// BankAccount holds the remittance details printed on certificates.
// One account per type per hostel.
type BankAccount struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HostelID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hostel_account_type" json:"hostel_id"`
	AccountType   string    `gorm:"size:20;not null;uniqueIndex:idx_hostel_account_type" json:"account_type"`
	BankName      string    `gorm:"size:200;not null" json:"bank_name"`
	BranchName    string    `gorm:"size:200;not null" json:"branch_name"`
	IFSCCode      string    `gorm:"size:11;not null" json:"ifsc_code"`
	AccountNumber string    `gorm:"size:50;not null" json:"account_number"`
	AccountName   string    `gorm:"size:200;not null" json:"account_name"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`

	Hostel Hostel `gorm:"foreignKey:HostelID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BankAccount) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
