package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/aurcc/hostel_bonafide/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateStudentRequest struct {
	RegisterNumber string  `json:"register_number" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required"`
	Gender         string  `json:"gender" validate:"required,oneof=M F"`
	DepartmentCode string  `json:"department_code" validate:"required"`
	Degree         string  `json:"degree" validate:"required"`
	CurrentYear    int     `json:"current_year" validate:"required,min=1,max=5"`
	AdmissionYear  int     `json:"admission_year" validate:"required"`
	GraduationYear int     `json:"graduation_year" validate:"required"`
	HostelCode     *string `json:"hostel_code"`
	PhoneNumber    string  `json:"phone_number"`
	Email          string  `json:"email" validate:"required,email"`
}

func parseDateOfBirth(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02-01-2006", "02/01/2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

func createStudentRecord(tx *gorm.DB, req CreateStudentRequest) (*models.Student, string, error) {
	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, "", err
	}

	var department models.Department
	if err := tx.First(&department, "code = ?", strings.ToUpper(req.DepartmentCode)).Error; err != nil {
		return nil, "", fmt.Errorf("department %q not found", req.DepartmentCode)
	}

	var hostel *models.Hostel
	if req.HostelCode != nil && *req.HostelCode != "" {
		var found models.Hostel
		if err := tx.First(&found, "code = ?", strings.ToUpper(*req.HostelCode)).Error; err != nil {
			return nil, "", fmt.Errorf("hostel %q not found", *req.HostelCode)
		}
		hostel = &found
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Username:           req.RegisterNumber,
		Password:           string(hashedPassword),
		Role:               models.RoleStudent,
		MustChangePassword: true,
	}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create account for %s: %w", req.RegisterNumber, err)
	}

	student := models.Student{
		UserID:         user.ID,
		RegisterNumber: req.RegisterNumber,
		Name:           req.Name,
		DateOfBirth:    dob,
		Gender:         strings.ToUpper(req.Gender),
		DepartmentID:   department.ID,
		Degree:         req.Degree,
		CurrentYear:    req.CurrentYear,
		AdmissionYear:  req.AdmissionYear,
		GraduationYear: req.GraduationYear,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
	}
	if hostel != nil {
		student.HostelID = &hostel.ID
	}
	if err := tx.Create(&student).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create student %s: %w", req.RegisterNumber, err)
	}

	return &student, tempPassword, nil
}

func CreateStudent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var student *models.Student
	var tempPassword string
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		student, tempPassword, err = createStudentRecord(tx, req)
		return err
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionCreateStudent,
		fmt.Sprintf("Created student: %s", student.RegisterNumber), c.IP(), c.Get("User-Agent"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"student":       student,
		"temp_password": tempPassword,
	})
}

func ListStudents(c *fiber.Ctx) error {
	query := database.DB.Preload("Department").Preload("Hostel").Order("register_number")
	if hostelID := c.Query("hostel_id"); hostelID != "" {
		query = query.Where("hostel_id = ?", hostelID)
	}
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("register_number ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(students)
}

func GetStudent(c *fiber.Ctx) error {
	var student models.Student
	err := database.DB.Preload("Department").Preload("Hostel").
		First(&student, "id = ?", c.Params("studentId")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}
	return c.JSON(student)
}

type UpdateStudentRequest struct {
	Name        *string `json:"name"`
	CurrentYear *int    `json:"current_year"`
	HostelCode  *string `json:"hostel_code"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
}

func UpdateStudent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("studentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.CurrentYear != nil {
		student.CurrentYear = *req.CurrentYear
	}
	if req.PhoneNumber != nil {
		student.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.HostelCode != nil {
		if *req.HostelCode == "" {
			student.HostelID = nil
		} else {
			var hostel models.Hostel
			if err := database.DB.First(&hostel, "code = ?", strings.ToUpper(*req.HostelCode)).Error; err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hostel not found"})
			}
			student.HostelID = &hostel.ID
		}
	}

	if err := database.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update student"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionUpdateStudent,
		fmt.Sprintf("Updated student: %s", student.RegisterNumber), c.IP(), c.Get("User-Agent"))

	return c.JSON(student)
}

func DeleteStudent(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", c.Params("studentId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	registerNumber := student.RegisterNumber
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&student).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", student.UserID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete student"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionDeleteStudent,
		fmt.Sprintf("Deleted student: %s", registerNumber), c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// BulkImportStudents creates student accounts from an uploaded .xlsx sheet.
// Column order: register_number, name, date_of_birth, gender,
// department_code, degree, current_year, admission_year, graduation_year,
// hostel_code, phone_number, email. Row failures are collected, not fatal.
func BulkImportStudents(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file upload"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot open uploaded file"})
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid Excel file"})
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Workbook has no sheets"})
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read worksheet"})
	}
	if len(rows) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Worksheet has no data rows"})
	}

	cell := func(row []string, index int) string {
		if index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	var created []string
	var rowErrors []fiber.Map
	for i, row := range rows[1:] {
		rowNumber := i + 2

		currentYear, err := strconv.Atoi(cell(row, 6))
		if err != nil {
			rowErrors = append(rowErrors, fiber.Map{"row": rowNumber, "error": fmt.Sprintf("Current year must be a number, got %q", cell(row, 6))})
			continue
		}
		admissionYear, err := strconv.Atoi(cell(row, 7))
		if err != nil {
			rowErrors = append(rowErrors, fiber.Map{"row": rowNumber, "error": fmt.Sprintf("Admission year must be a number, got %q", cell(row, 7))})
			continue
		}
		graduationYear, err := strconv.Atoi(cell(row, 8))
		if err != nil {
			rowErrors = append(rowErrors, fiber.Map{"row": rowNumber, "error": fmt.Sprintf("Graduation year must be a number, got %q", cell(row, 8))})
			continue
		}

		req := CreateStudentRequest{
			RegisterNumber: cell(row, 0),
			Name:           cell(row, 1),
			DateOfBirth:    cell(row, 2),
			Gender:         strings.ToUpper(cell(row, 3)),
			DepartmentCode: strings.ToUpper(cell(row, 4)),
			Degree:         cell(row, 5),
			CurrentYear:    currentYear,
			AdmissionYear:  admissionYear,
			GraduationYear: graduationYear,
			PhoneNumber:    cell(row, 10),
			Email:          cell(row, 11),
		}
		if hostelCode := strings.ToUpper(cell(row, 9)); hostelCode != "" {
			req.HostelCode = &hostelCode
		}
		if req.RegisterNumber == "" {
			rowErrors = append(rowErrors, fiber.Map{"row": rowNumber, "error": "Missing register number"})
			continue
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var existing models.Student
			if err := tx.First(&existing, "register_number = ?", req.RegisterNumber).Error; err == nil {
				return fmt.Errorf("student %s already exists", req.RegisterNumber)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			_, _, err := createStudentRecord(tx, req)
			return err
		})
		if err != nil {
			rowErrors = append(rowErrors, fiber.Map{"row": rowNumber, "error": err.Error()})
			continue
		}
		created = append(created, req.RegisterNumber)
	}

	logging.L().Infow("Bulk student import finished",
		"created", len(created), "failed", len(rowErrors), "by", user.ID)
	go services.LogActivity(database.DB, user.ID, models.ActionBulkStudentUpload,
		fmt.Sprintf("Bulk uploaded %d students (%d rows failed)", len(created), len(rowErrors)),
		c.IP(), c.Get("User-Agent"))

	return c.JSON(fiber.Map{
		"created_count": len(created),
		"created":       created,
		"errors":        rowErrors,
	})
}
