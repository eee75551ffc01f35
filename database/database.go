package database

import (
	config "github.com/aurcc/hostel_bonafide/configs"
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logging.L().Fatalf("Failed to connect to database: %v", err)
	}

	logging.L().Info("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.AcademicYear{},
		&models.Hostel{},
		&models.BankAccount{},
		&models.Warden{},
		&models.DeanProfile{},
		&models.Student{},
		&models.BonafideRequest{},
		&models.BonafideSettings{},
		&models.CertificateSequence{},
		&models.AuditLog{},
	)
	if err != nil {
		logging.L().Fatalf("Failed to migrate database: %v", err)
	}
	logging.L().Info("Database migration successful")
}

// SeedDean creates the initial dean account and profile from the environment
// when no dean exists yet.
func SeedDean() {
	deanUsername := config.Config("DEAN_USERNAME")
	deanPassword := config.Config("DEAN_PASSWORD")
	if deanUsername == "" || deanPassword == "" {
		logging.L().Warn("DEAN_USERNAME/DEAN_PASSWORD not set, skipping dean seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleDean).Count(&count).Error; err != nil {
		logging.L().Fatalf("Failed to check for dean user: %v", err)
	}
	if count > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(deanPassword), bcrypt.DefaultCost)
	if err != nil {
		logging.L().Fatalf("Failed to hash dean password: %v", err)
	}

	deanEmail := config.Config("DEAN_EMAIL")
	deanUser := models.User{
		Username:           deanUsername,
		Password:           string(hashedPassword),
		Role:               models.RoleDean,
		IsSuperuser:        true,
		MustChangePassword: true,
	}
	if deanEmail != "" {
		deanUser.Email = &deanEmail
	}
	if err := DB.Create(&deanUser).Error; err != nil {
		logging.L().Fatalf("Failed to seed dean user: %v", err)
	}

	profile := models.DeanProfile{
		UserID:      deanUser.ID,
		Name:        config.Config("DEAN_FULL_NAME"),
		PhoneNumber: config.Config("DEAN_PHONE"),
		Email:       deanEmail,
	}
	if err := DB.Create(&profile).Error; err != nil {
		logging.L().Fatalf("Failed to seed dean profile: %v", err)
	}

	logging.L().Infow("Dean account seeded", "username", deanUsername)
}
