package handlers

import (
	"fmt"
	"strings"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/aurcc/hostel_bonafide/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateHostelRequest struct {
	Name                     string  `json:"name" validate:"required"`
	Code                     string  `json:"code" validate:"required"`
	HostelType               string  `json:"hostel_type" validate:"required,oneof=boys girls"`
	Capacity                 int     `json:"capacity" validate:"min=0"`
	MessFeesPerYear          float64 `json:"mess_fees_per_year" validate:"min=0"`
	EstablishmentFeesPerYear float64 `json:"establishment_fees_per_year" validate:"min=0"`
}

func CreateHostel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req CreateHostelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hostel := models.Hostel{
		Name:                     req.Name,
		Code:                     strings.ToUpper(req.Code),
		HostelType:               req.HostelType,
		Capacity:                 req.Capacity,
		MessFeesPerYear:          req.MessFeesPerYear,
		EstablishmentFeesPerYear: req.EstablishmentFeesPerYear,
	}
	if err := database.DB.Create(&hostel).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Hostel code already exists"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionCreateHostel,
		fmt.Sprintf("Created hostel: %s", hostel.Name), c.IP(), c.Get("User-Agent"))

	return c.Status(fiber.StatusCreated).JSON(hostel)
}

func ListHostels(c *fiber.Ctx) error {
	var hostels []models.Hostel
	if err := database.DB.Preload("Wardens").Order("name").Find(&hostels).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch hostels"})
	}
	return c.JSON(hostels)
}

type UpdateHostelRequest struct {
	Name                     *string  `json:"name"`
	Capacity                 *int     `json:"capacity"`
	MessFeesPerYear          *float64 `json:"mess_fees_per_year"`
	EstablishmentFeesPerYear *float64 `json:"establishment_fees_per_year"`
}

func UpdateHostel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var hostel models.Hostel
	if err := database.DB.First(&hostel, "id = ?", c.Params("hostelId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Hostel not found"})
	}

	var req UpdateHostelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Name != nil {
		hostel.Name = *req.Name
	}
	if req.Capacity != nil {
		hostel.Capacity = *req.Capacity
	}
	if req.MessFeesPerYear != nil {
		hostel.MessFeesPerYear = *req.MessFeesPerYear
	}
	if req.EstablishmentFeesPerYear != nil {
		hostel.EstablishmentFeesPerYear = *req.EstablishmentFeesPerYear
	}

	if err := database.DB.Save(&hostel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update hostel"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionUpdateHostel,
		fmt.Sprintf("Updated hostel: %s", hostel.Name), c.IP(), c.Get("User-Agent"))

	return c.JSON(hostel)
}

type CreateWardenRequest struct {
	Username    string `json:"username" validate:"required"`
	HostelCode  string `json:"hostel_code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Designation string `json:"designation"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" validate:"required,email"`
}

// CreateWarden creates the warden's user account and profile together.
func CreateWarden(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req CreateWardenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var hostel models.Hostel
	if err := database.DB.First(&hostel, "code = ?", strings.ToUpper(req.HostelCode)).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hostel not found"})
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate password"})
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var warden models.Warden
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		email := req.Email
		wardenUser := models.User{
			Username:           req.Username,
			Password:           string(hashedPassword),
			Email:              &email,
			Role:               models.RoleWarden,
			MustChangePassword: true,
		}
		if err := tx.Create(&wardenUser).Error; err != nil {
			return err
		}

		warden = models.Warden{
			UserID:      wardenUser.ID,
			HostelID:    hostel.ID,
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Email:       req.Email,
		}
		if req.Designation != "" {
			warden.Designation = req.Designation
		}
		return tx.Create(&warden).Error
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to create warden: " + err.Error()})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionCreateWardenProfile,
		fmt.Sprintf("Created warden profile: %s (%s)", warden.Name, hostel.Name),
		c.IP(), c.Get("User-Agent"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"warden":        warden,
		"temp_password": tempPassword,
	})
}

func ListWardens(c *fiber.Ctx) error {
	var wardens []models.Warden
	if err := database.DB.Preload("Hostel").Order("name").Find(&wardens).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch wardens"})
	}
	return c.JSON(wardens)
}

type UpsertBankAccountRequest struct {
	AccountType   string `json:"account_type" validate:"required,oneof=establishment mess"`
	BankName      string `json:"bank_name" validate:"required"`
	BranchName    string `json:"branch_name" validate:"required"`
	IFSCCode      string `json:"ifsc_code" validate:"required,len=11"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	IsActive      *bool  `json:"is_active"`
}

// UpsertBankAccount creates or replaces the hostel's account of the given
// type. One establishment and one mess account per hostel.
func UpsertBankAccount(c *fiber.Ctx) error {
	var hostel models.Hostel
	if err := database.DB.First(&hostel, "id = ?", c.Params("hostelId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Hostel not found"})
	}

	var req UpsertBankAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	account := models.BankAccount{
		HostelID:    hostel.ID,
		AccountType: req.AccountType,
	}
	database.DB.Where("hostel_id = ? AND account_type = ?", hostel.ID, req.AccountType).First(&account)

	account.BankName = req.BankName
	account.BranchName = req.BranchName
	account.IFSCCode = req.IFSCCode
	account.AccountNumber = req.AccountNumber
	account.AccountName = req.AccountName
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	} else {
		account.IsActive = true
	}

	if err := database.DB.Save(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save bank account"})
	}
	return c.JSON(account)
}

func ListBankAccounts(c *fiber.Ctx) error {
	var accounts []models.BankAccount
	err := database.DB.Where("hostel_id = ?", c.Params("hostelId")).
		Order("account_type").Find(&accounts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bank accounts"})
	}
	return c.JSON(accounts)
}

type CreateDepartmentRequest struct {
	Code                string `json:"code" validate:"required"`
	Name                string `json:"name" validate:"required"`
	CourseDurationYears int    `json:"course_duration_years" validate:"required,min=1,max=6"`
}

func CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	department := models.Department{
		Code:                strings.ToUpper(req.Code),
		Name:                req.Name,
		CourseDurationYears: req.CourseDurationYears,
	}
	if err := database.DB.Create(&department).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Department code already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(department)
}

func ListDepartments(c *fiber.Ctx) error {
	var departments []models.Department
	if err := database.DB.Order("code").Find(&departments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch departments"})
	}
	return c.JSON(departments)
}
