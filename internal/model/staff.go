package model

import "github.com/google/uuid"

// StaffMember is a member of staff whose permissions are managed directly,
// without roles.
type StaffMember struct {
	BaseModel
	Email       string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	FullName    string       `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	Permissions []Permission `gorm:"many2many:staff_permissions;" json:"permissions,omitempty"`
}

// HasPermission checks if the staff member holds the named permission.
func (s *StaffMember) HasPermission(name string) bool {
	for _, p := range s.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

// StaffResponse is used for API responses
type StaffResponse struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"full_name"`
	IsActive    bool         `json:"is_active"`
	Permissions []Permission `json:"permissions"`
}

func (s *StaffMember) ToResponse() StaffResponse {
	permissions := s.Permissions
	if permissions == nil {
		permissions = []Permission{}
	}
	return StaffResponse{
		ID:          s.ID,
		Email:       s.Email,
		FullName:    s.FullName,
		IsActive:    s.IsActive,
		Permissions: permissions,
	}
}

// DefaultAdminEmail is the staff member seeded with the full catalog.
const DefaultAdminEmail = "admin@example.com"
