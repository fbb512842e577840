package services

import (
	"fmt"
	"time"

	"fica_onboarding_go/models"

	"gorm.io/gorm"
)

// TaskService manages assignment records. Tasks are created by admins,
// mutated by the assignee or an admin, and never deleted.
type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// CreateTaskInput carries the fields for a new task
type CreateTaskInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssignedToID string    `json:"assigned_to_id"`
	ClientID     *string   `json:"client_id"`
	CaseID       *string   `json:"case_id"`
	Priority     string    `json:"priority"`
	DueDate      time.Time `json:"due_date"`
}

// CreateTask creates a task assigned by the actor
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" || input.AssignedToID == "" {
		return nil, fmt.Errorf("%w: title and assignee are required", ErrInvalidInput)
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.IsValidTaskPriority(input.Priority) {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidInput, input.Priority)
	}
	if input.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", ErrInvalidInput)
	}

	var assignee models.User
	if err := s.DB.First(&assignee, "id = ?", input.AssignedToID).Error; err != nil {
		return nil, ErrNotFound
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		AssignedToID: input.AssignedToID,
		AssignedByID: actor.ID,
		ClientID:     input.ClientID,
		CaseID:       input.CaseID,
		Priority:     input.Priority,
		Status:       models.TaskStatusPending,
		DueDate:      input.DueDate,
	}

	if err := s.DB.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	AppendAuditLog(s.DB, actor, "task_created", models.AuditEntityTask, task.ID,
		fmt.Sprintf("Task %q assigned to %s (priority %s, due %s)",
			task.Title, assignee.Name, task.Priority, task.DueDate.Format("2006-01-02")))
	return task, nil
}

// UpdateTaskStatus moves a task between its storable statuses; completing a
// task stamps CompletedAt. Only the assignee or an admin may change it.
func (s *TaskService) UpdateTaskStatus(actor *models.User, taskID, status string) (*models.Task, error) {
	if !models.IsValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: task status %q", ErrInvalidInput, status)
	}

	task, err := s.TaskByID(taskID)
	if err != nil {
		return nil, err
	}
	if actor.ID != task.AssignedToID && actor.Role != models.RoleAdmin {
		return nil, ErrRoleNotAllowed
	}

	oldStatus := task.Status
	task.Status = status
	if status == models.TaskStatusCompleted && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.DB.Save(task).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	AppendAuditLog(s.DB, actor, "task_status_changed", models.AuditEntityTask, task.ID,
		fmt.Sprintf("Task %q moved from %s to %s", task.Title, oldStatus, status))
	return task, nil
}

// TaskByID fetches a task
func (s *TaskService) TaskByID(taskID string) (*models.Task, error) {
	var task models.Task
	err := s.DB.First(&task, "id = ?", taskID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

// ListTasks returns tasks, optionally scoped to an assignee, due-soonest first
func (s *TaskService) ListTasks(assignedToID string) ([]models.Task, error) {
	query := s.DB.Order("due_date ASC")
	if assignedToID != "" {
		query = query.Where("assigned_to_id = ?", assignedToID)
	}
	var tasks []models.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

// OverdueTasks returns tasks past due and not completed
func (s *TaskService) OverdueTasks(now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Where("status != ? AND due_date < ?", models.TaskStatusCompleted, now).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}
