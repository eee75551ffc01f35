package handlers

import (
	"fmt"
	"strings"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/notifications"
	"github.com/aurcc/hostel_bonafide/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// certificateRenderer is injected from main; tests swap in stubs.
var certificateRenderer services.CertificateRenderer

func SetCertificateRenderer(r services.CertificateRenderer) {
	certificateRenderer = r
}

type CreateBonafideRequestBody struct {
	Reason            string  `json:"reason" validate:"required"`
	ReasonDescription string  `json:"reason_description"`
	AttachmentURL     *string `json:"attachment_url"`
}

type ReviewRequestBody struct {
	Action  string `json:"action" validate:"required,oneof=approve reject"`
	Remarks string `json:"remarks"`
}

func CreateBonafideRequest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var body CreateBonafideRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.CreateRequest(database.DB, user, services.CreateRequestInput{
		Reason:            body.Reason,
		ReasonDescription: body.ReasonDescription,
		AttachmentURL:     body.AttachmentURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	go services.LogActivity(database.DB, user.ID, models.ActionCreateBonafideRequest,
		fmt.Sprintf("Created bonafide request: %s", request.ID), c.IP(), c.Get("User-Agent"))

	return c.Status(fiber.StatusCreated).JSON(request)
}

func GetMyRequests(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	requests, err := services.VisibleRequests(database.DB, user)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

func WardenPendingRequests(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var warden models.Warden
	if err := database.DB.First(&warden, "user_id = ?", user.ID).Error; err != nil {
		return c.JSON([]models.BonafideRequest{})
	}

	var requests []models.BonafideRequest
	err = database.DB.Preload("Student.Department").Preload("Student.Hostel").
		Joins("JOIN students ON students.id = bonafide_requests.student_id").
		Where("students.hostel_id = ? AND bonafide_requests.status = ?", warden.HostelID, models.StatusPending).
		Order("bonafide_requests.created_at ASC").
		Find(&requests).Error
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

func DeanPendingRequests(c *fiber.Ctx) error {
	var requests []models.BonafideRequest
	err := database.DB.Preload("Student.Department").Preload("Student.Hostel").
		Where("status = ?", models.StatusWardenApproved).
		Order("warden_review_date ASC").
		Find(&requests).Error
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// AllBonafideRequests is scoped by role: dean sees all, warden their hostel.
func AllBonafideRequests(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	requests, err := services.VisibleRequests(database.DB, user)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

func WardenReviewRequest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var body ReviewRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.WardenReview(database.DB, user, requestID, services.ReviewInput{
		Action:  body.Action,
		Remarks: body.Remarks,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	action := models.ActionWardenApprove
	verb := "Approved"
	if body.Action == services.ActionReject {
		action = models.ActionWardenReject
		verb = "Rejected"
	}
	go services.LogActivity(database.DB, user.ID, action,
		fmt.Sprintf("%s bonafide request: %s", verb, request.ID),
		c.IP(), c.Get("User-Agent"))
	go notifyReviewOutcome(request, "Warden")

	return c.JSON(request)
}

func DeanReviewRequest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var body ReviewRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	request, err := services.DeanReview(database.DB, user, requestID, services.ReviewInput{
		Action:  body.Action,
		Remarks: body.Remarks,
	}, certificateRenderer)
	if err != nil {
		return respondServiceError(c, err)
	}

	action := models.ActionDeanApprove
	verb := "Approved"
	if body.Action == services.ActionReject {
		action = models.ActionDeanReject
		verb = "Rejected"
	}
	go services.LogActivity(database.DB, user.ID, action,
		fmt.Sprintf("%s bonafide request: %s", verb, request.ID),
		c.IP(), c.Get("User-Agent"))
	go notifyReviewOutcome(request, "Dean")

	return c.JSON(request)
}

func DownloadCertificate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var request models.BonafideRequest
	if err := database.DB.Preload("Student").First(&request, "id = ?", requestID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}

	switch {
	case user.IsDean():
	case user.IsWarden():
		var warden models.Warden
		if err := database.DB.First(&warden, "user_id = ?", user.ID).Error; err != nil ||
			request.Student.HostelID == nil || *request.Student.HostelID != warden.HostelID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only download certificates from your hostel"})
		}
	case user.IsStudent():
		var student models.Student
		if err := database.DB.First(&student, "user_id = ?", user.ID).Error; err != nil ||
			student.ID != request.StudentID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only download your own certificates"})
		}
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Permission denied"})
	}

	if request.Status != models.StatusDeanApproved || request.CertificateFilePath == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Certificate not yet generated"})
	}

	go services.LogActivity(database.DB, user.ID, models.ActionDownloadBonafide,
		fmt.Sprintf("Downloaded bonafide certificate: %s", *request.CertificateNumber),
		c.IP(), c.Get("User-Agent"))

	filename := fmt.Sprintf("bonafide_%s.pdf", strings.ReplaceAll(*request.CertificateNumber, "/", "_"))
	return c.Download(*request.CertificateFilePath, filename)
}

func notifyReviewOutcome(request *models.BonafideRequest, reviewedBy string) {
	student := request.Student
	if student.Email == "" {
		return
	}

	subject := fmt.Sprintf("Bonafide Request Update: %s", request.StatusDisplay())
	body := fmt.Sprintf(
		"<h1>Bonafide Request Update</h1><p>Dear %s,</p><p>Your bonafide certificate request (%s) has been reviewed by the %s. Current status: <b>%s</b>.</p>",
		student.Name, request.ReasonDisplay(), reviewedBy, request.StatusDisplay(),
	)
	if request.Status == models.StatusDeanApproved && request.CertificateNumber != nil {
		body += fmt.Sprintf("<p>Your certificate number is <b>%s</b>. You can download it from the portal.</p>", *request.CertificateNumber)
	}
	notifications.SendEmail(student.Name, student.Email, subject, body)
}
