package models

// CertificateSequence hands out per-year certificate numbers. The increment
// runs inside the dean-approval transaction and holds the row lock until
// commit, so two concurrent approvals in the same year can never draw the
// same number, and a rolled back approval never burns one.
type CertificateSequence struct {
	Year       int `gorm:"primaryKey" json:"year"`
	LastNumber int `gorm:"not null;default:0" json:"last_number"`
}
