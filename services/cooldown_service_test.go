package services

import (
	"testing"

	"github.com/aurcc/hostel_bonafide/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingsCreatesDefault(t *testing.T) {
	db := newTestDB(t)

	settings, err := GetSettings(db)
	require.NoError(t, err)
	assert.Equal(t, models.CooldownThreeMonths, settings.CooldownPeriod)
	assert.Equal(t, 90, settings.CooldownDays())

	// Second call reads the same row, not a second one.
	again, err := GetSettings(db)
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestCheckCooldownBlocksInsideWindow(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	_, student := createStudent(t, db, dept, &hostel, "2023CS001")

	settings, err := GetSettings(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonBankLoan,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(30),
	}).Error)

	err = CheckCooldown(db, student.ID, settings)
	require.Error(t, err)

	var cooldownErr *CooldownError
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 60, cooldownErr.DaysRemaining)
	assert.NotEmpty(t, cooldownErr.CanReapplyDate)
	assert.NotEmpty(t, cooldownErr.LastApprovedDate)
}

func TestCheckCooldownAllowsAfterWindow(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	_, student := createStudent(t, db, dept, &hostel, "2023CS001")

	settings, err := GetSettings(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonBankLoan,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(100),
	}).Error)

	assert.NoError(t, CheckCooldown(db, student.ID, settings))
}

func TestCheckCooldownIgnoresRejectedRequests(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	_, student := createStudent(t, db, dept, &hostel, "2023CS001")

	settings, err := GetSettings(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonBankLoan,
		Status:         models.StatusDeanRejected,
		DeanReviewDate: daysAgo(5),
	}).Error)

	assert.NoError(t, CheckCooldown(db, student.ID, settings))
}

func TestCheckCooldownDisabled(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	_, student := createStudent(t, db, dept, &hostel, "2023CS001")

	settings, err := GetSettings(db)
	require.NoError(t, err)
	require.NoError(t, db.Model(settings).Update("cooldown_period", models.CooldownDisabled).Error)
	settings.CooldownPeriod = models.CooldownDisabled

	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonBankLoan,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(1),
	}).Error)

	assert.NoError(t, CheckCooldown(db, student.ID, settings))
}

func TestCheckCooldownUsesMostRecentApproval(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	_, student := createStudent(t, db, dept, &hostel, "2023CS001")

	settings, err := GetSettings(db)
	require.NoError(t, err)

	// An old approval outside the window plus a fresh one inside it.
	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonScholarship,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(400),
	}).Error)
	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonBankLoan,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(10),
	}).Error)

	var cooldownErr *CooldownError
	err = CheckCooldown(db, student.ID, settings)
	require.ErrorAs(t, err, &cooldownErr)
	assert.Equal(t, 80, cooldownErr.DaysRemaining)
}
