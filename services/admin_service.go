package services

import (
	"fmt"

	"fica_onboarding_go/models"

	"gorm.io/gorm"
)

// AdminService is the administrative mutation layer: user and profile CRUD
// plus case assignment. Every mutation appends one audit entry whose detail
// string is rendered from current in-memory lookups.
type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// CreateUserInput carries the fields an admin supplies for a new user
type CreateUserInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	ContactNumber string `json:"contact_number"`
	Department    string `json:"department"`
}

// CreateUser creates a user account
func (s *AdminService) CreateUser(actor *models.User, input CreateUserInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = models.RoleClient
	}
	if !models.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, input.Role)
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          input.Name,
		Email:         input.Email,
		Password:      hashed,
		Role:          input.Role,
		ContactNumber: input.ContactNumber,
		Department:    input.Department,
		IsActive:      true,
	}
	if actor != nil {
		user.CreatedBy = &actor.ID
	}

	if err := s.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	AppendAuditLog(s.DB, actor, "user_created", models.AuditEntityUser, user.ID,
		fmt.Sprintf("Created %s account for %s (%s)", user.Role, user.Name, user.Email))
	return user, nil
}

// UpdateUserInput carries mutable user fields; nil means leave unchanged
type UpdateUserInput struct {
	Name          *string `json:"name"`
	ContactNumber *string `json:"contact_number"`
	Department    *string `json:"department"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateUser mutates a user's contact metadata and active flag. Identity
// and role are immutable for the account's lifetime.
func (s *AdminService) UpdateUser(actor *models.User, userID string, input UpdateUserInput) (*models.User, error) {
	user, err := s.UserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.ContactNumber != nil {
		user.ContactNumber = *input.ContactNumber
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	AppendAuditLog(s.DB, actor, "user_updated", models.AuditEntityUser, user.ID,
		fmt.Sprintf("Updated account details for %s", user.Name))
	return user, nil
}

// DeactivateUser flips the active flag; accounts are never hard-deleted
func (s *AdminService) DeactivateUser(actor *models.User, userID string) (*models.User, error) {
	user, err := s.UserByID(userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	if err := s.DB.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}

	AppendAuditLog(s.DB, actor, "user_deactivated", models.AuditEntityUser, user.ID,
		fmt.Sprintf("Deactivated account for %s (%s)", user.Name, user.Email))
	return user, nil
}

// UserByID fetches a user
func (s *AdminService) UserByID(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ListUsers returns all users, optionally filtered by role
func (s *AdminService) ListUsers(role string) ([]models.User, error) {
	query := s.DB.Order("created_at ASC")
	if role != "" {
		query = query.Where("role = ?", role)
	}
	var users []models.User
	err := query.Find(&users).Error
	return users, err
}

// AssignCaseToStaff sets the case's assigned staff member and bumps the
// staff profile's case-load counter when one exists.
func (s *AdminService) AssignCaseToStaff(actor *models.User, caseID, staffID string) (*models.ClientCase, error) {
	staff, err := s.UserByID(staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsStaffOrAdmin() {
		return nil, fmt.Errorf("%w: %s is not staff", ErrRoleNotAllowed, staff.Name)
	}

	var c models.ClientCase
	err = s.DB.First(&c, "id = ?", caseID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		previousStaffID := c.AssignedStaffID
		c.AssignedStaffID = &staff.ID
		if err := tx.Save(&c).Error; err != nil {
			return err
		}

		if previousStaffID != nil && *previousStaffID != staff.ID {
			tx.Model(&models.StaffProfile{}).
				Where("user_id = ? AND current_case_load > 0", *previousStaffID).
				UpdateColumn("current_case_load", gorm.Expr("current_case_load - 1"))
		}
		if previousStaffID == nil || *previousStaffID != staff.ID {
			tx.Model(&models.StaffProfile{}).
				Where("user_id = ?", staff.ID).
				UpdateColumn("current_case_load", gorm.Expr("current_case_load + 1"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign case: %w", err)
	}

	AppendAuditLog(s.DB, actor, "case_assigned", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Case for %s assigned to %s", c.ClientName, staff.Name))
	return &c, nil
}

// UpsertClientProfile creates or updates the client profile for a user
func (s *AdminService) UpsertClientProfile(actor *models.User, profile *models.ClientProfile) (*models.ClientProfile, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	var existing models.ClientProfile
	err := s.DB.Where("user_id = ?", profile.UserID).First(&existing).Error
	action := "client_profile_created"
	if err == nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		action = "client_profile_updated"
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to fetch client profile: %w", err)
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save client profile: %w", err)
	}

	AppendAuditLog(s.DB, actor, action, models.AuditEntityClient, profile.UserID,
		fmt.Sprintf("Client profile saved (%s / %s)", profile.BusinessType, profile.Industry))
	return profile, nil
}

// UpsertStaffProfile creates or updates the staff profile for a user
func (s *AdminService) UpsertStaffProfile(actor *models.User, profile *models.StaffProfile) (*models.StaffProfile, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	var existing models.StaffProfile
	err := s.DB.Where("user_id = ?", profile.UserID).First(&existing).Error
	action := "staff_profile_created"
	if err == nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		action = "staff_profile_updated"
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to fetch staff profile: %w", err)
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to save staff profile: %w", err)
	}

	AppendAuditLog(s.DB, actor, action, models.AuditEntityUser, profile.UserID,
		fmt.Sprintf("Staff profile saved (%s, %s)", profile.Department, profile.AccessLevel))
	return profile, nil
}

// ClientProfileFor fetches the client profile of a user
func (s *AdminService) ClientProfileFor(userID string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client profile: %w", err)
	}
	return &profile, nil
}

// StaffProfileFor fetches the staff profile of a user
func (s *AdminService) StaffProfileFor(userID string) (*models.StaffProfile, error) {
	var profile models.StaffProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff profile: %w", err)
	}
	return &profile, nil
}
