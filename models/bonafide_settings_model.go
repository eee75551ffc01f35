package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CooldownDisabled    = "disabled"
	CooldownOneMonth    = "1_month"
	CooldownThreeMonths = "3_months"
	CooldownSixMonths   = "6_months"
	CooldownOneYear     = "1_year"
)

var cooldownDays = map[string]int{
	CooldownDisabled:    0,
	CooldownOneMonth:    30,
	CooldownThreeMonths: 90,
	CooldownSixMonths:   180,
	CooldownOneYear:     365,
}

var cooldownDisplay = map[string]string{
	CooldownDisabled:    "Disabled (No Cooldown)",
	CooldownOneMonth:    "1 Month",
	CooldownThreeMonths: "3 Months",
	CooldownSixMonths:   "6 Months",
	CooldownOneYear:     "1 Year",
}

// BonafideSettings is a single-row configuration record managed by the dean.
type BonafideSettings struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CooldownPeriod string     `gorm:"size:20;not null;default:'3_months'" json:"cooldown_period"`
	UpdatedAt      time.Time  `json:"updated_at"`
	UpdatedByID    *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
}

// CooldownDays converts the configured period to days. Unknown values fall
// back to 90 days rather than silently disabling the cooldown.
func (s *BonafideSettings) CooldownDays() int {
	days, ok := cooldownDays[s.CooldownPeriod]
	if !ok {
		return 90
	}
	return days
}

func (s *BonafideSettings) CooldownDisplay() string {
	if display, ok := cooldownDisplay[s.CooldownPeriod]; ok {
		return display
	}
	return cooldownDisplay[CooldownThreeMonths]
}

// ValidCooldownPeriod reports whether the given period is a known choice.
func ValidCooldownPeriod(period string) bool {
	_, ok := cooldownDays[period]
	return ok
}
