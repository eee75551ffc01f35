package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleWarden  = "warden"
	RoleDean    = "dean"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username           string    `gorm:"size:150;not null;unique" json:"username"`
	Password           string    `gorm:"not null" json:"-"`
	Email              *string   `gorm:"size:255" json:"email"`
	Role               string    `gorm:"size:20;not null;default:'student'" json:"role"`
	IsSuperuser        bool      `gorm:"default:false" json:"is_superuser"`
	MustChangePassword bool      `gorm:"default:true" json:"must_change_password"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsWarden() bool  { return u.Role == RoleWarden }

// IsDean also covers superusers, who hold dean-level authority everywhere.
func (u *User) IsDean() bool { return u.Role == RoleDean || u.IsSuperuser }
