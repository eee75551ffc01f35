package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type CreateRequestInput struct {
	Reason            string
	ReasonDescription string
	AttachmentURL     *string
}

type ReviewInput struct {
	Action  string
	Remarks string
}

// CreateRequest submits a new bonafide request for the student behind the
// given user. Preconditions: the student must be assigned to a hostel, the
// hostel must have a warden, and the cooldown window must have elapsed.
func CreateRequest(db *gorm.DB, user models.User, input CreateRequestInput) (*models.BonafideRequest, error) {
	if !user.IsStudent() {
		return nil, &AuthorizationError{Message: "Only students can create bonafide requests"}
	}

	var student models.Student
	if err := db.First(&student, "user_id = ?", user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Message: "Student profile not found. Please contact the administrator to set up your student profile."}
		}
		return nil, err
	}

	if !models.ValidReason(input.Reason) {
		return nil, &ValidationError{Message: "Invalid reason"}
	}

	if student.HostelID == nil {
		return nil, &ValidationError{Message: "You must be assigned to a hostel before requesting a bonafide certificate. Please contact the Dean."}
	}

	var wardenCount int64
	if err := db.Model(&models.Warden{}).Where("hostel_id = ?", *student.HostelID).Count(&wardenCount).Error; err != nil {
		return nil, err
	}
	if wardenCount == 0 {
		return nil, &ValidationError{Message: "Your hostel does not have a warden assigned yet. Please contact the Dean to assign a warden first."}
	}

	settings, err := GetSettings(db)
	if err != nil {
		return nil, err
	}
	if err := CheckCooldown(db, student.ID, settings); err != nil {
		return nil, err
	}

	request := models.BonafideRequest{
		StudentID:         student.ID,
		Reason:            input.Reason,
		ReasonDescription: input.ReasonDescription,
		Status:            models.StatusPending,
		AttachmentURL:     input.AttachmentURL,
	}
	if err := db.Create(&request).Error; err != nil {
		return nil, err
	}

	logging.L().Infow("Bonafide request created",
		"request_id", request.ID, "student_id", student.ID, "reason", input.Reason)
	return &request, nil
}

func validateReview(input ReviewInput) error {
	if input.Action != ActionApprove && input.Action != ActionReject {
		return &ValidationError{Message: "Action must be either 'approve' or 'reject'"}
	}
	if input.Action == ActionReject && input.Remarks == "" {
		return &ValidationError{Message: "Remarks are required for rejection"}
	}
	return nil
}

// WardenReview moves a pending request to warden_approved or
// warden_rejected. The status write is a compare-and-set: a concurrent
// reviewer losing the race gets a state-conflict error.
func WardenReview(db *gorm.DB, reviewer models.User, requestID uuid.UUID, input ReviewInput) (*models.BonafideRequest, error) {
	if !reviewer.IsWarden() {
		return nil, &AuthorizationError{Message: "Only wardens can review requests"}
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	var warden models.Warden
	if err := db.First(&warden, "user_id = ?", reviewer.ID).Error; err != nil {
		return nil, &AuthorizationError{Message: "Only wardens can review requests"}
	}

	var request models.BonafideRequest
	if err := db.Preload("Student").First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Request"}
		}
		return nil, err
	}

	if request.Student.HostelID == nil || *request.Student.HostelID != warden.HostelID {
		logging.L().Warnw("Warden review denied for foreign hostel",
			"request_id", requestID, "warden_id", warden.ID)
		return nil, &AuthorizationError{Message: "You can only review requests from your hostel"}
	}

	newStatus := models.StatusWardenApproved
	if input.Action == ActionReject {
		newStatus = models.StatusWardenRejected
	}

	now := time.Now()
	result := db.Model(&models.BonafideRequest{}).
		Where("id = ? AND status = ?", request.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":                newStatus,
			"reviewed_by_warden_id": warden.ID,
			"warden_review_date":    now,
			"warden_remarks":        input.Remarks,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, &StateConflictError{Message: "Request cannot be reviewed at this stage"}
	}

	logging.L().Infow("Warden review recorded",
		"request_id", request.ID, "warden_id", warden.ID, "status", newStatus)

	if err := db.Preload("Student.Department").Preload("Student.Hostel").First(&request, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// DeanReview moves a warden_approved request to its terminal state. On
// approval, certificate issuance runs inside the same transaction: number
// assignment, code derivation, document rendering, and the status change
// commit or roll back as one unit.
func DeanReview(db *gorm.DB, reviewer models.User, requestID uuid.UUID, input ReviewInput, renderer CertificateRenderer) (*models.BonafideRequest, error) {
	if !reviewer.IsDean() {
		return nil, &AuthorizationError{Message: "Only dean can review requests"}
	}
	if err := validateReview(input); err != nil {
		return nil, err
	}

	var request models.BonafideRequest
	if err := db.Preload("Student.Department").Preload("Student.Hostel").
		First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Request"}
		}
		return nil, err
	}
	if !request.CanBeReviewedByDean() {
		return nil, &StateConflictError{Message: "Request must be approved by warden first"}
	}

	now := time.Now()

	if input.Action == ActionReject {
		result := db.Model(&models.BonafideRequest{}).
			Where("id = ? AND status = ?", request.ID, models.StatusWardenApproved).
			Updates(map[string]interface{}{
				"status":              models.StatusDeanRejected,
				"reviewed_by_dean_id": reviewer.ID,
				"dean_review_date":    now,
				"dean_remarks":        input.Remarks,
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, &StateConflictError{Message: "Request must be approved by warden first"}
		}
		logging.L().Infow("Dean rejected request", "request_id", request.ID, "dean_id", reviewer.ID)
	} else {
		err := db.Transaction(func(tx *gorm.DB) error {
			// CAS first: claims the row and fails fast if a concurrent
			// reviewer already moved it.
			result := tx.Model(&models.BonafideRequest{}).
				Where("id = ? AND status = ?", request.ID, models.StatusWardenApproved).
				Updates(map[string]interface{}{
					"status":              models.StatusDeanApproved,
					"reviewed_by_dean_id": reviewer.ID,
					"dean_review_date":    now,
					"dean_remarks":        input.Remarks,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &StateConflictError{Message: "Request must be approved by warden first"}
			}

			seq, err := nextSequenceNumber(tx, now.Year())
			if err != nil {
				return err
			}
			certificateNumber := fmt.Sprintf("BC/%d/%04d", now.Year(), seq)
			verificationCode := GenerateVerificationCode(request.ID, request.Student.RegisterNumber)

			data, err := BuildCertificateContext(tx, &request, certificateNumber, verificationCode, now)
			if err != nil {
				return err
			}

			renderCtx, cancel := context.WithTimeout(context.Background(), RenderTimeout)
			defer cancel()
			pdf, err := renderer.Render(renderCtx, data)
			if err != nil {
				return &RenderingError{Err: err}
			}

			filePath, err := saveCertificateFile(certificateNumber, pdf)
			if err != nil {
				return &RenderingError{Err: err}
			}

			return tx.Model(&models.BonafideRequest{}).
				Where("id = ?", request.ID).
				Updates(map[string]interface{}{
					"certificate_number":      certificateNumber,
					"certificate_issued_date": now,
					"certificate_file_path":   filePath,
					"verification_code":       verificationCode,
				}).Error
		})
		if err != nil {
			return nil, err
		}
		logging.L().Infow("Dean approved request, certificate issued",
			"request_id", request.ID, "dean_id", reviewer.ID)
	}

	if err := db.Preload("Student.Department").Preload("Student.Hostel").First(&request, "id = ?", request.ID).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// VisibleRequests lists requests the user may read: students their own,
// wardens their hostel's, deans everything.
func VisibleRequests(db *gorm.DB, user models.User) ([]models.BonafideRequest, error) {
	var requests []models.BonafideRequest
	query := db.Preload("Student.Department").Preload("Student.Hostel").Order("bonafide_requests.created_at DESC")

	switch {
	case user.IsDean():
		// no filter
	case user.IsWarden():
		var warden models.Warden
		if err := db.First(&warden, "user_id = ?", user.ID).Error; err != nil {
			return []models.BonafideRequest{}, nil
		}
		query = query.Joins("JOIN students ON students.id = bonafide_requests.student_id").
			Where("students.hostel_id = ?", warden.HostelID)
	case user.IsStudent():
		var student models.Student
		if err := db.First(&student, "user_id = ?", user.ID).Error; err != nil {
			return []models.BonafideRequest{}, nil
		}
		query = query.Where("student_id = ?", student.ID)
	default:
		return []models.BonafideRequest{}, nil
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
