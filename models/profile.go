package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Onboarding status constants for client profiles
const (
	OnboardingNotStarted = "not-started"
	OnboardingInProgress = "in-progress"
	OnboardingCompleted  = "completed"
	OnboardingOnHold     = "on-hold"
)

// Staff access level constants
const (
	AccessLevelBasic      = "basic"
	AccessLevelAdvanced   = "advanced"
	AccessLevelSupervisor = "supervisor"
)

// Staff availability constants
const (
	AvailabilityAvailable   = "available"
	AvailabilityBusy        = "busy"
	AvailabilityUnavailable = "unavailable"
)

// ClientProfile layers business classification onto a client User. Linked
// loosely by UserID; no foreign-key enforcement against the users table.
type ClientProfile struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	BusinessType      string `json:"business_type,omitempty"`
	Industry          string `json:"industry,omitempty"`
	AnnualRevenue     string `json:"annual_revenue,omitempty"`
	NumberOfEmployees string `json:"number_of_employees,omitempty"`
	RiskProfile       string `gorm:"size:10" json:"risk_profile,omitempty"` // low, medium, high
	Notes             string `gorm:"type:text" json:"notes,omitempty"`

	AssignedStaffID  *string `gorm:"type:uuid" json:"assigned_staff_id,omitempty"`
	OnboardingStatus string  `gorm:"not null;default:not-started" json:"onboarding_status"`
}

// BeforeCreate hook to generate UUID
func (p *ClientProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (ClientProfile) TableName() string {
	return "client_profiles"
}

// StaffProfile carries department and workload metadata for a staff User.
type StaffProfile struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Department  string `gorm:"not null" json:"department"`
	Position    string `json:"position,omitempty"`
	AccessLevel string `gorm:"not null;default:basic" json:"access_level"`

	MaxCaseLoad     int    `gorm:"not null;default:10" json:"max_case_load"`
	CurrentCaseLoad int    `gorm:"not null;default:0" json:"current_case_load"`
	Skills          string `gorm:"type:text" json:"skills,omitempty"` // comma-separated
	Availability    string `gorm:"not null;default:available" json:"availability"`
}

// BeforeCreate hook to generate UUID
func (p *StaffProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (StaffProfile) TableName() string {
	return "staff_profiles"
}

// HasCapacity reports whether the staff member can take another case
func (p *StaffProfile) HasCapacity() bool {
	return p.CurrentCaseLoad < p.MaxCaseLoad
}
