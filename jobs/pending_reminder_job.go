package jobs

import (
	"fmt"
	"time"

	"github.com/aurcc/hostel_bonafide/database"
	"github.com/aurcc/hostel_bonafide/logging"
	"github.com/aurcc/hostel_bonafide/models"
	"github.com/aurcc/hostel_bonafide/notifications"
)

const staleAfter = 3 * 24 * time.Hour

// RemindWardensOfPendingRequests emails each warden a digest of requests
// that have sat in pending for more than three days.
func RemindWardensOfPendingRequests() {
	logging.L().Info("Running job: RemindWardensOfPendingRequests")

	cutoff := time.Now().Add(-staleAfter)

	var stale []models.BonafideRequest
	err := database.DB.Preload("Student").
		Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		logging.L().Errorw("Failed to query stale pending requests", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	byHostel := make(map[string][]models.BonafideRequest)
	for _, request := range stale {
		if request.Student.HostelID == nil {
			continue
		}
		key := request.Student.HostelID.String()
		byHostel[key] = append(byHostel[key], request)
	}

	for hostelID, requests := range byHostel {
		var wardens []models.Warden
		if err := database.DB.Where("hostel_id = ?", hostelID).Find(&wardens).Error; err != nil {
			continue
		}

		body := fmt.Sprintf("<h1>Pending Bonafide Requests</h1><p>%d request(s) in your hostel have been waiting for review for more than 3 days:</p><ul>", len(requests))
		for _, request := range requests {
			body += fmt.Sprintf("<li>%s — %s (submitted %s)</li>",
				request.Student.RegisterNumber, request.ReasonDisplay(),
				request.CreatedAt.Format("02 Jan 2006"))
		}
		body += "</ul><p>Please log in to the portal to review them.</p>"

		for _, warden := range wardens {
			go notifications.SendEmail(warden.Name, warden.Email, "Pending Bonafide Requests Need Your Review", body)
		}
	}

	logging.L().Infow("Pending-request reminders dispatched", "stale_requests", len(stale))
}
