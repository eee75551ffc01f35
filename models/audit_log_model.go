package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin                  = "LOGIN"
	ActionPasswordChange         = "PASSWORD_CHANGE"
	ActionCreateUser             = "CREATE_USER"
	ActionCreateBonafideRequest  = "CREATE_BONAFIDE_REQUEST"
	ActionWardenApprove          = "WARDEN_APPROVE"
	ActionWardenReject           = "WARDEN_REJECT"
	ActionDeanApprove            = "DEAN_APPROVE"
	ActionDeanReject             = "DEAN_REJECT"
	ActionDownloadBonafide       = "DOWNLOAD_BONAFIDE"
	ActionUpdateBonafideSettings = "UPDATE_BONAFIDE_SETTINGS"
	ActionCreateStudent          = "CREATE_STUDENT"
	ActionUpdateStudent          = "UPDATE_STUDENT"
	ActionDeleteStudent          = "DELETE_STUDENT"
	ActionBulkStudentUpload      = "BULK_STUDENT_UPLOAD"
	ActionCreateHostel           = "CREATE_HOSTEL"
	ActionUpdateHostel           = "UPDATE_HOSTEL"
	ActionCreateWardenProfile    = "CREATE_WARDEN_PROFILE"
)

type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_user_ts" json:"user_id"`
	Action      string    `gorm:"size:50;not null;index:idx_audit_action_ts" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   *string   `gorm:"size:45" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
	Timestamp   time.Time `gorm:"autoCreateTime;index:idx_audit_user_ts;index:idx_audit_action_ts" json:"timestamp"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
