package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;unique" json:"user_id"`
	RegisterNumber string     `gorm:"size:50;not null;unique" json:"register_number"`
	Name           string     `gorm:"size:200;not null" json:"name"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Gender         string     `gorm:"size:1" json:"gender"`
	DepartmentID   uuid.UUID  `gorm:"type:uuid;not null" json:"department_id"`
	Degree         string     `gorm:"size:50" json:"degree"`
	CurrentYear    int        `gorm:"not null;default:1" json:"current_year"`
	AdmissionYear  int        `json:"admission_year"`
	GraduationYear int        `json:"graduation_year"`
	HostelID       *uuid.UUID `gorm:"type:uuid" json:"hostel_id"`
	PhoneNumber    string     `gorm:"size:15" json:"phone_number"`
	Email          string     `gorm:"size:255" json:"email"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	Department Department  `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Hostel     *Hostel     `gorm:"foreignKey:HostelID" json:"hostel,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

var yearNames = map[int]string{1: "First", 2: "Second", 3: "Third", 4: "Fourth", 5: "Fifth"}

// YearDisplay returns the current year as text ("Third Year").
func (s *Student) YearDisplay() string {
	name, ok := yearNames[s.CurrentYear]
	if !ok {
		name = "First"
	}
	return name + " Year"
}
