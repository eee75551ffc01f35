package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestReviewGates(t *testing.T) {
	r := BonafideRequest{Status: StatusPending}
	assert.True(t, r.CanBeReviewedByWarden())
	assert.False(t, r.CanBeReviewedByDean())

	r.Status = StatusWardenApproved
	assert.False(t, r.CanBeReviewedByWarden())
	assert.True(t, r.CanBeReviewedByDean())

	for _, terminal := range []string{StatusWardenRejected, StatusDeanApproved, StatusDeanRejected} {
		r.Status = terminal
		assert.False(t, r.CanBeReviewedByWarden(), terminal)
		assert.False(t, r.CanBeReviewedByDean(), terminal)
	}
}

func TestValidReason(t *testing.T) {
	assert.True(t, ValidReason(ReasonBankLoan))
	assert.True(t, ValidReason(ReasonOther))
	assert.False(t, ValidReason(""))
	assert.False(t, ValidReason("sightseeing"))
}

func TestCooldownDays(t *testing.T) {
	s := BonafideSettings{CooldownPeriod: CooldownDisabled}
	assert.Equal(t, 0, s.CooldownDays())

	s.CooldownPeriod = CooldownOneYear
	assert.Equal(t, 365, s.CooldownDays())

	// Unknown values fall back to the default window instead of disabling.
	s.CooldownPeriod = "2_weeks"
	assert.Equal(t, 90, s.CooldownDays())
	assert.False(t, ValidCooldownPeriod("2_weeks"))
}

func TestYearDisplay(t *testing.T) {
	s := Student{CurrentYear: 3}
	assert.Equal(t, "Third Year", s.YearDisplay())

	s.CurrentYear = 0
	assert.Equal(t, "First Year", s.YearDisplay())
}
