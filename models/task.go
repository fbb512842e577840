package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priority constants
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// Task status constants. Overdue is never stored; it is derived from the
// due date at read time (see DisplayStatus).
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
	TaskStatusOverdue    = "overdue"
)

// Task is an assignment record created by an admin for a staff member,
// optionally linked to a client and onboarding case.
type Task struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	AssignedToID string `gorm:"type:uuid;not null;index" json:"assigned_to_id"`
	AssignedTo   User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedByID string `gorm:"type:uuid;not null" json:"assigned_by_id"`
	AssignedBy   User   `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`

	ClientID *string `gorm:"type:uuid;index" json:"client_id,omitempty"`
	CaseID   *string `gorm:"type:uuid;index" json:"case_id,omitempty"`

	Priority string `gorm:"not null;default:medium" json:"priority"`
	Status   string `gorm:"not null;default:pending;index" json:"status"`

	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether the task is past due and not completed
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusCompleted && t.DueDate.Before(now)
}

// DisplayStatus returns the stored status, substituting the derived
// overdue state when the due date has passed
func (t *Task) DisplayStatus(now time.Time) string {
	if t.IsOverdue(now) {
		return TaskStatusOverdue
	}
	return t.Status
}

// IsValidTaskPriority checks if the priority is valid
func IsValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// IsValidTaskStatus checks if the status is a storable status
func IsValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}
