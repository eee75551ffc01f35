package services

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aurcc/hostel_bonafide/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	requestID := uuid.New()
	code := GenerateVerificationCode(requestID, "2023CS001")

	assert.Len(t, code, 32)
	assert.Equal(t, code, GenerateVerificationCode(requestID, "2023CS001"))
	assert.NotEqual(t, code, GenerateVerificationCode(requestID, "2023CS002"))
	assert.NotEqual(t, code, GenerateVerificationCode(uuid.New(), "2023CS001"))
}

func TestDeanApproveIssuesCertificate(t *testing.T) {
	t.Setenv("CERTIFICATE_STORAGE_DIR", t.TempDir())
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	db := newTestDB(t)
	dean := createDean(t, db)
	_, request := approvedByWarden(t, db)

	approved, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove, Remarks: "Issue"}, &stubRenderer{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDeanApproved, approved.Status)
	require.NotNil(t, approved.CertificateNumber)
	require.NotNil(t, approved.CertificateIssuedDate)
	require.NotNil(t, approved.CertificateFilePath)
	require.NotNil(t, approved.VerificationCode)

	assert.Equal(t, fmt.Sprintf("BC/%d/0001", time.Now().Year()), *approved.CertificateNumber)
	assert.Len(t, *approved.VerificationCode, 32)

	_, err = os.Stat(*approved.CertificateFilePath)
	assert.NoError(t, err)
}

func TestSequentialApprovalsDrawDistinctNumbers(t *testing.T) {
	t.Setenv("CERTIFICATE_STORAGE_DIR", t.TempDir())
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	db := newTestDB(t)
	dean := createDean(t, db)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	wardenUser, _ := createWarden(t, db, hostel)

	year := time.Now().Year()
	for i := 1; i <= 2; i++ {
		studentUser, _ := createStudent(t, db, dept, &hostel, fmt.Sprintf("2023CS%03d", i))
		request, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: models.ReasonBankLoan})
		require.NoError(t, err)
		_, err = WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionApprove})
		require.NoError(t, err)

		approved, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})
		require.NoError(t, err)
		require.NotNil(t, approved.CertificateNumber)
		assert.Equal(t, fmt.Sprintf("BC/%d/%04d", year, i), *approved.CertificateNumber)
	}
}

func TestRenderFailureRollsBackApproval(t *testing.T) {
	t.Setenv("CERTIFICATE_STORAGE_DIR", t.TempDir())
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	db := newTestDB(t)
	dean := createDean(t, db)
	_, request := approvedByWarden(t, db)

	_, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove},
		&stubRenderer{err: errors.New("chrome crashed")})

	var renderErr *RenderingError
	require.ErrorAs(t, err, &renderErr)

	var reloaded models.BonafideRequest
	require.NoError(t, db.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, models.StatusWardenApproved, reloaded.Status)
	assert.Nil(t, reloaded.CertificateNumber)
	assert.Nil(t, reloaded.CertificateIssuedDate)
	assert.Nil(t, reloaded.CertificateFilePath)
	assert.Nil(t, reloaded.VerificationCode)

	// The rolled back approval must not burn a sequence number.
	approved, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})
	require.NoError(t, err)
	require.NotNil(t, approved.CertificateNumber)
	assert.Equal(t, fmt.Sprintf("BC/%d/0001", time.Now().Year()), *approved.CertificateNumber)
}

func TestBuildCertificateContext(t *testing.T) {
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	db := newTestDB(t)
	createDean(t, db)
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	createWarden(t, db, hostel)
	studentUser, _ := createStudent(t, db, dept, &hostel, "2023CS001")

	require.NoError(t, db.Create(&models.BankAccount{
		HostelID:      hostel.ID,
		AccountType:   models.AccountTypeEstablishment,
		BankName:      "State Bank",
		BranchName:    "Campus Branch",
		IFSCCode:      "SBIN0001234",
		AccountNumber: "1234567890",
		AccountName:   "Hostel Establishment",
	}).Error)
	require.NoError(t, db.Create(&models.BankAccount{
		HostelID:      hostel.ID,
		AccountType:   models.AccountTypeMess,
		BankName:      "State Bank",
		BranchName:    "Campus Branch",
		IFSCCode:      "SBIN0001234",
		AccountNumber: "0987654321",
		AccountName:   "Hostel Mess",
	}).Error)

	request, err := CreateRequest(db, studentUser, CreateRequestInput{Reason: models.ReasonBankLoan})
	require.NoError(t, err)
	require.NoError(t, db.Preload("Student.Department").Preload("Student.Hostel").
		First(request, "id = ?", request.ID).Error)

	issuedAt := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	data, err := BuildCertificateContext(db, request, "BC/2026/0007", "abc123", issuedAt)
	require.NoError(t, err)

	assert.Equal(t, "AURCC/HOSTEL/BONAFIDE/2026/0007", data.CertificateNumber)
	assert.Equal(t, "28.08.2026", data.CertificateDate)
	assert.Equal(t, "Third Year", data.YearOfStudy)
	assert.Equal(t, "Bank Loan", data.Reason)
	assert.Equal(t, "B.E. Computer Science and Engineering", data.DegreeDept)
	assert.Equal(t, hostel.Name, data.HostelName)

	// Four course years at 12000 establishment and 30000 mess each.
	require.Len(t, data.FeeRows, 4)
	assert.Equal(t, "First Year", data.FeeRows[0].Year)
	assert.Equal(t, "48000", data.TotalEstablishment)
	assert.Equal(t, "120000", data.TotalMess)

	require.NotNil(t, data.Establishment)
	assert.Equal(t, "1234567890", data.Establishment.AccountNumber)
	require.NotNil(t, data.Mess)
	assert.Equal(t, "0987654321", data.Mess.AccountNumber)

	require.NotNil(t, data.Warden)
	require.NotNil(t, data.Dean)
	assert.Contains(t, data.QRCodeDataURI, "data:image/png;base64,")
	assert.NotEmpty(t, data.DigitalSignature)
}

func TestVerifyCertificateRoundTrip(t *testing.T) {
	t.Setenv("CERTIFICATE_STORAGE_DIR", t.TempDir())
	t.Setenv("BONAFIDE_SIGNATURE_KEY", "test-signing-key")

	db := newTestDB(t)
	dean := createDean(t, db)
	_, request := approvedByWarden(t, db)

	approved, err := DeanReview(db, dean, request.ID, ReviewInput{Action: ActionApprove}, &stubRenderer{})
	require.NoError(t, err)
	require.NotNil(t, approved.VerificationCode)

	result, err := VerifyCertificate(db, *approved.VerificationCode)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, *approved.CertificateNumber, result.CertificateNumber)
	assert.Equal(t, "2023CS001", result.RegisterNumber)
	assert.Equal(t, models.StatusDeanApproved, result.Status)
	require.NotNil(t, result.IssuedDate)
}

func TestVerifyCertificateUnknownCode(t *testing.T) {
	db := newTestDB(t)

	result, err := VerifyCertificate(db, "deadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.Empty(t, result.CertificateNumber)
	assert.Empty(t, result.StudentName)
}
