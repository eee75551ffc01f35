package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending        = "pending"
	StatusWardenApproved = "warden_approved"
	StatusWardenRejected = "warden_rejected"
	StatusDeanApproved   = "dean_approved"
	StatusDeanRejected   = "dean_rejected"
)

const (
	ReasonBankLoan      = "bank_loan"
	ReasonScholarship   = "scholarship"
	ReasonPassport      = "passport"
	ReasonVisa          = "visa"
	ReasonIdentityProof = "identity_proof"
	ReasonOther         = "other"
)

var statusDisplay = map[string]string{
	StatusPending:        "Pending with Warden",
	StatusWardenApproved: "Approved by Warden",
	StatusWardenRejected: "Rejected by Warden",
	StatusDeanApproved:   "Approved by Dean",
	StatusDeanRejected:   "Rejected by Dean",
}

var reasonDisplay = map[string]string{
	ReasonBankLoan:      "Bank Loan",
	ReasonScholarship:   "Scholarship",
	ReasonPassport:      "Passport Application",
	ReasonVisa:          "Visa Application",
	ReasonIdentityProof: "Identity Proof",
	ReasonOther:         "Other",
}

// BonafideRequest is the central entity of the approval workflow. The four
// certificate fields are written together with the dean_approved status in
// one transaction and are never partially set.
type BonafideRequest struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"request_id"`
	StudentID         uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Reason            string    `gorm:"size:50;not null" json:"reason"`
	ReasonDescription string    `gorm:"type:text" json:"reason_description"`
	Status            string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AttachmentURL     *string   `gorm:"size:500" json:"attachment_url"`

	ReviewedByWardenID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_warden"`
	WardenReviewDate   *time.Time `json:"warden_review_date"`
	WardenRemarks      string     `gorm:"type:text" json:"warden_remarks"`

	ReviewedByDeanID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_dean"`
	DeanReviewDate   *time.Time `json:"dean_review_date"`
	DeanRemarks      string     `gorm:"type:text" json:"dean_remarks"`

	CertificateNumber     *string    `gorm:"size:50;unique" json:"certificate_number"`
	CertificateIssuedDate *time.Time `json:"certificate_issued_date"`
	CertificateFilePath   *string    `gorm:"size:500" json:"-"`
	VerificationCode      *string    `gorm:"size:100;unique" json:"verification_code"`

	Student          Student `gorm:"foreignKey:StudentID" json:"student_details,omitempty"`
	ReviewedByWarden *Warden `gorm:"foreignKey:ReviewedByWardenID" json:"-"`
	ReviewedByDean   *User   `gorm:"foreignKey:ReviewedByDeanID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *BonafideRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *BonafideRequest) CanBeReviewedByWarden() bool {
	return r.Status == StatusPending
}

func (r *BonafideRequest) CanBeReviewedByDean() bool {
	return r.Status == StatusWardenApproved
}

func (r *BonafideRequest) StatusDisplay() string { return statusDisplay[r.Status] }
func (r *BonafideRequest) ReasonDisplay() string { return reasonDisplay[r.Reason] }

// ValidReason reports whether the given reason is one of the closed set.
func ValidReason(reason string) bool {
	_, ok := reasonDisplay[reason]
	return ok
}
