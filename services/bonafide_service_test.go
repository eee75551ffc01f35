package services

import (
	"testing"

	"github.com/aurcc/hostel_bonafide/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	db := newTestDB(t)
	_, _, request := seedPendingRequest(t, db)

	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, models.ReasonBankLoan, request.Reason)
	assert.Nil(t, request.CertificateNumber)
}

func TestCreateRequestRejectsNonStudents(t *testing.T) {
	db := newTestDB(t)
	dean := createDean(t, db)

	_, err := CreateRequest(db, dean, CreateRequestInput{Reason: models.ReasonBankLoan})

	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestCreateRequestRejectsUnknownReason(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	createWarden(t, db, hostel)
	studentUser, _ := createStudent(t, db, dept, &hostel, "2023CS001")

	_, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: "world_tour"})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateRequestRequiresHostelAssignment(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	studentUser, _ := createStudent(t, db, dept, nil, "2023CS001")

	_, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: models.ReasonBankLoan})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "hostel")
}

func TestCreateRequestRequiresWardenAssigned(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	studentUser, _ := createStudent(t, db, dept, &hostel, "2023CS001")

	_, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: models.ReasonBankLoan})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "warden")
}

func TestCreateRequestHonorsCooldown(t *testing.T) {
	db := newTestDB(t)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	createWarden(t, db, hostel)
	studentUser, student := createStudent(t, db, dept, &hostel, "2023CS001")

	require.NoError(t, db.Create(&models.BonafideRequest{
		StudentID:      student.ID,
		Reason:         models.ReasonScholarship,
		Status:         models.StatusDeanApproved,
		DeanReviewDate: daysAgo(10),
	}).Error)

	_, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: models.ReasonBankLoan})

	var cooldownErr *CooldownError
	assert.ErrorAs(t, err, &cooldownErr)
}

func TestWardenReviewApprove(t *testing.T) {
	db := newTestDB(t)
	_, wardenUser, request := seedPendingRequest(t, db)

	reviewed, err := WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionApprove, Remarks: "Verified"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusWardenApproved, reviewed.Status)
	assert.NotNil(t, reviewed.ReviewedByWardenID)
	assert.NotNil(t, reviewed.WardenReviewDate)
	assert.Equal(t, "Verified", reviewed.WardenRemarks)
}

func TestWardenReviewRejectRequiresRemarks(t *testing.T) {
	db := newTestDB(t)
	_, wardenUser, request := seedPendingRequest(t, db)

	_, err := WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionReject})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestWardenReviewForeignHostelDenied(t *testing.T) {
	db := newTestDB(t)
	_, _, request := seedPendingRequest(t, db)

	otherHostel := createHostel(t, db, "BH2")
	otherWardenUser, _ := createWarden(t, db, otherHostel)

	_, err := WardenReview(db, otherWardenUser, request.ID, ReviewInput{Action: ActionApprove})

	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestWardenReviewOnlyFromPending(t *testing.T) {
	db := newTestDB(t)
	wardenUser, request := approvedByWarden(t, db)

	_, err := WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionApprove})

	var conflictErr *StateConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestDeanReviewRequiresWardenApproval(t *testing.T) {
	db := newTestDB(t)
	dean := createDean(t, db)
	_, wardenUser, request := seedPendingRequest(t, db)

	// Still pending with the warden.
	_, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})
	var conflictErr *StateConflictError
	assert.ErrorAs(t, err, &conflictErr)

	// Warden-rejected requests are terminal.
	_, err = WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionReject, Remarks: "Dues pending"})
	require.NoError(t, err)
	_, err = DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})
	assert.ErrorAs(t, err, &conflictErr)
}

func TestDeanReviewReject(t *testing.T) {
	db := newTestDB(t)
	dean := createDean(t, db)
	_, request := approvedByWarden(t, db)

	reviewed, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionReject, Remarks: "Attachment unreadable"}, &stubRenderer{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDeanRejected, reviewed.Status)
	assert.Equal(t, "Attachment unreadable", reviewed.DeanRemarks)
	assert.Nil(t, reviewed.CertificateNumber)
	assert.Nil(t, reviewed.VerificationCode)
}

func TestDeanReviewRejectsNonDean(t *testing.T) {
	db := newTestDB(t)
	wardenUser, request := approvedByWarden(t, db)

	_, err := DeanReview(db, wardenUser, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})

	var authErr *AuthorizationError
	assert.ErrorAs(t, err, &authErr)
}

func TestVisibleRequests(t *testing.T) {
	db := newTestDB(t)
	dean := createDean(t, db)
	dept := createDepartment(t, db)

	hostelA := createHostel(t, db, "BH1")
	hostelB := createHostel(t, db, "BH2")
	wardenAUser, _ := createWarden(t, db, hostelA)
	createWarden(t, db, hostelB)

	studentAUser, _ := createStudent(t, db, dept, &hostelA, "2023CS001")
	studentBUser, _ := createStudent(t, db, dept, &hostelB, "2023CS002")

	_, err := CreateRequest(db, studentAUser, CreateRequestInput{Reason: models.ReasonBankLoan})
	require.NoError(t, err)
	_, err = CreateRequest(db, studentBUser, CreateRequestInput{Reason: models.ReasonPassport})
	require.NoError(t, err)

	deanView, err := VisibleRequests(db, dean)
	require.NoError(t, err)
	assert.Len(t, deanView, 2)

	wardenView, err := VisibleRequests(db, wardenAUser)
	require.NoError(t, err)
	require.Len(t, wardenView, 1)
	assert.Equal(t, models.ReasonBankLoan, wardenView[0].Reason)

	studentView, err := VisibleRequests(db, studentBUser)
	require.NoError(t, err)
	require.Len(t, studentView, 1)
	assert.Equal(t, models.ReasonPassport, studentView[0].Reason)
}
