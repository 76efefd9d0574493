package repository

import (
	"go-staff-permissions/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	Paginate(page, perPage int) ([]model.Permission, int64, error)
	FindByIDs(ids []int) ([]model.Permission, error)
	FindAll() ([]model.Permission, error)
	Create(permission *model.Permission) error
	SeedDefaults() error
}

type permissionRepo struct {
	db *gorm.DB
}

func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db}
}

// Paginate returns one page of the catalog ordered by id, plus the catalog size.
func (r *permissionRepo) Paginate(page, perPage int) ([]model.Permission, int64, error) {
	var total int64
	if err := r.db.Model(&model.Permission{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count permissions")
	}

	var permissions []model.Permission
	err := r.db.Order("id").Offset((page - 1) * perPage).Limit(perPage).Find(&permissions).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "paginate permissions")
	}
	return permissions, total, nil
}

func (r *permissionRepo) FindByIDs(ids []int) ([]model.Permission, error) {
	var permissions []model.Permission
	if len(ids) == 0 {
		return permissions, nil
	}
	if err := r.db.Where("id IN ?", ids).Order("id").Find(&permissions).Error; err != nil {
		return nil, errors.Wrap(err, "find permissions by id")
	}
	return permissions, nil
}

func (r *permissionRepo) FindAll() ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepo) Create(permission *model.Permission) error {
	return r.db.Create(permission).Error
}

// SeedDefaults creates default permissions if they don't exist
func (r *permissionRepo) SeedDefaults() error {
	for _, p := range model.DefaultPermissions() {
		var existing model.Permission
		err := r.db.Where("name = ?", p.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&p).Error; err != nil {
				return errors.Wrapf(err, "seed permission %s", p.Name)
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
