package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/aurcc/hostel_bonafide/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Hostel{},
		&models.BankAccount{},
		&models.Warden{},
		&models.DeanProfile{},
		&models.Student{},
		&models.AcademicYear{},
		&models.BonafideSettings{},
		&models.BonafideRequest{},
		&models.CertificateSequence{},
		&models.AuditLog{},
	))
	return db
}

func createDepartment(t *testing.T, db *gorm.DB) models.Department {
	t.Helper()
	dept := models.Department{Code: "CSE", Name: "Computer Science and Engineering", CourseDurationYears: 4}
	require.NoError(t, db.Create(&dept).Error)
	return dept
}

func createHostel(t *testing.T, db *gorm.DB, code string) models.Hostel {
	t.Helper()
	hostel := models.Hostel{
		Name:                     code + " Hostel",
		Code:                     code,
		HostelType:               models.HostelTypeBoys,
		Capacity:                 200,
		MessFeesPerYear:          30000,
		EstablishmentFeesPerYear: 12000,
	}
	require.NoError(t, db.Create(&hostel).Error)
	return hostel
}

func createStudent(t *testing.T, db *gorm.DB, dept models.Department, hostel *models.Hostel, registerNumber string) (models.User, models.Student) {
	t.Helper()
	user := models.User{Username: registerNumber, Password: "hashed", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	student := models.Student{
		UserID:         user.ID,
		RegisterNumber: registerNumber,
		Name:           "Student " + registerNumber,
		Gender:         "M",
		DepartmentID:   dept.ID,
		Degree:         "B.E.",
		CurrentYear:    3,
		AdmissionYear:  2023,
		GraduationYear: 2027,
	}
	if hostel != nil {
		student.HostelID = &hostel.ID
	}
	require.NoError(t, db.Create(&student).Error)
	return user, student
}

func createWarden(t *testing.T, db *gorm.DB, hostel models.Hostel) (models.User, models.Warden) {
	t.Helper()
	user := models.User{Username: "warden_" + hostel.Code, Password: "hashed", Role: models.RoleWarden}
	require.NoError(t, db.Create(&user).Error)

	warden := models.Warden{
		UserID:      user.ID,
		HostelID:    hostel.ID,
		Name:        "Warden of " + hostel.Name,
		Designation: "Deputy Warden",
		PhoneNumber: "9876543210",
		Email:       "warden@example.edu",
	}
	require.NoError(t, db.Create(&warden).Error)
	return user, warden
}

func createDean(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "dean", Password: "hashed", Role: models.RoleDean}
	require.NoError(t, db.Create(&user).Error)

	profile := models.DeanProfile{
		UserID:      user.ID,
		Name:        "Dr. Dean",
		PhoneNumber: "9000000000",
		Email:       "dean@example.edu",
	}
	require.NoError(t, db.Create(&profile).Error)
	return user
}

// seedPendingRequest wires up a full campus (department, hostel with a
// warden, student) and files one pending request for the student.
func seedPendingRequest(t *testing.T, db *gorm.DB) (models.User, models.User, *models.BonafideRequest) {
	t.Helper()
	dept := createDepartment(t, db)
	hostel := createHostel(t, db, "BH1")
	wardenUser, _ := createWarden(t, db, hostel)
	studentUser, _ := createStudent(t, db, dept, &hostel, "2023CS001")

	request, err := CreateRequest(db, studentUser, CreateRequestInput{
		Reason:            models.ReasonBankLoan,
		ReasonDescription: "Education loan renewal",
	})
	require.NoError(t, err)
	return studentUser, wardenUser, request
}

func approvedByWarden(t *testing.T, db *gorm.DB) (models.User, *models.BonafideRequest) {
	t.Helper()
	_, wardenUser, request := seedPendingRequest(t, db)
	request, err := WardenReview(db, wardenUser, request.ID, ReviewInput{Action: ActionApprove, Remarks: "Verified"})
	require.NoError(t, err)
	return wardenUser, request
}

func daysAgo(n int) *time.Time {
	ts := time.Now().AddDate(0, 0, -n)
	return &ts
}

// stubRenderer stands in for headless Chrome.
type stubRenderer struct {
	pdf []byte
	err error
}

func (r *stubRenderer) Render(ctx context.Context, data CertificateContext) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.pdf != nil {
		return r.pdf, nil
	}
	return []byte(fmt.Sprintf("%%PDF %s", data.CertificateNumber)), nil
}
