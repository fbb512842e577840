package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleClient = "client"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string  `gorm:"not null" json:"name"`
	Email         string  `gorm:"uniqueIndex;not null" json:"email"`
	Password      string  `gorm:"not null" json:"-"`
	Role          string  `gorm:"not null;default:client" json:"role"` // client, staff, admin
	ContactNumber string  `json:"contact_number,omitempty"`
	Department    string  `json:"department,omitempty"`
	IsActive      bool    `gorm:"not null;default:true" json:"is_active"`
	CreatedBy     *string `gorm:"type:uuid" json:"created_by,omitempty"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsStaffOrAdmin reports whether the user can work cases
func (u *User) IsStaffOrAdmin() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

// IsValidRole checks if the role is valid
func IsValidRole(role string) bool {
	return role == RoleClient || role == RoleStaff || role == RoleAdmin
}
