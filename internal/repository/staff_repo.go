package repository

import (
	"go-staff-permissions/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type StaffRepository interface {
	FindByID(id uuid.UUID) (*model.StaffMember, error)
	FindByEmail(email string) (*model.StaffMember, error)
	Create(staff *model.StaffMember) error
	ReplacePermissions(staffID uuid.UUID, permissions []model.Permission, updatedBy string) error
}

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db}
}

func (r *staffRepo) FindByID(id uuid.UUID) (*model.StaffMember, error) {
	var staff model.StaffMember
	if err := r.db.Preload("Permissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("permissions.id")
	}).First(&staff, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) FindByEmail(email string) (*model.StaffMember, error) {
	var staff model.StaffMember
	if err := r.db.Preload("Permissions").Where("email = ?", email).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) Create(staff *model.StaffMember) error {
	return r.db.Create(staff).Error
}

// ReplacePermissions swaps the whole grant list of a staff member in one transaction.
func (r *staffRepo) ReplacePermissions(staffID uuid.UUID, permissions []model.Permission, updatedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var staff model.StaffMember
		if err := tx.First(&staff, "id = ?", staffID).Error; err != nil {
			return err
		}

		association := tx.Model(&staff).Association("Permissions")
		var err error
		if len(permissions) == 0 {
			err = association.Clear()
		} else {
			err = association.Replace(permissions)
		}
		if err != nil {
			return errors.Wrap(err, "replace staff permissions")
		}

		return tx.Model(&staff).Update("updated_by", updatedBy).Error
	})
}
