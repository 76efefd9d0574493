package service

import (
	"fmt"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/repository"
	"go-staff-permissions/internal/ws"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxPageSize = 100

var (
	ErrStaffNotFound = errors.New("staff not found")
	ErrInvalidPage   = errors.New("page must be a positive integer")
)

// UnknownPermissionError rejects an assignment naming an id outside the catalog.
type UnknownPermissionError struct {
	ID int
}

func (e *UnknownPermissionError) Error() string {
	return fmt.Sprintf("permission not found: %d", e.ID)
}

// Notifier receives change events; the websocket hub is the production one.
type Notifier interface {
	Notify(event ws.Event)
}

type PermissionService interface {
	Catalog(page, perPage int) (*model.CatalogPage, error)
	Assigned(staffID uuid.UUID) ([]model.Permission, error)
	Assign(staffID uuid.UUID, ids []int, updaterID string) ([]model.Permission, error)
}

type permissionService struct {
	permissionRepo  repository.PermissionRepository
	staffRepo       repository.StaffRepository
	notifier        Notifier
	defaultPageSize int
	log             *logrus.Logger
}

func NewPermissionService(
	permissionRepo repository.PermissionRepository,
	staffRepo repository.StaffRepository,
	notifier Notifier,
	defaultPageSize int,
	log *logrus.Logger,
) PermissionService {
	return &permissionService{
		permissionRepo:  permissionRepo,
		staffRepo:       staffRepo,
		notifier:        notifier,
		defaultPageSize: defaultPageSize,
		log:             log,
	}
}

// Catalog returns one page. Pages past the end are empty but still report
// the real last page.
func (s *permissionService) Catalog(page, perPage int) (*model.CatalogPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if perPage < 1 {
		perPage = s.defaultPageSize
	}
	perPage = min(perPage, maxPageSize)

	items, total, err := s.permissionRepo.Paginate(page, perPage)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Permission{}
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	return &model.CatalogPage{
		Items:       items,
		CurrentPage: page,
		LastPage:    max(lastPage, 1),
	}, nil
}

func (s *permissionService) Assigned(staffID uuid.UUID) ([]model.Permission, error) {
	staff, err := s.staffRepo.FindByID(staffID)
	if err != nil {
		return nil, s.staffLookupError(err)
	}
	if staff.Permissions == nil {
		return []model.Permission{}, nil
	}
	return staff.Permissions, nil
}

// Assign makes ids the complete grant list of the staff member.
func (s *permissionService) Assign(staffID uuid.UUID, ids []int, updaterID string) ([]model.Permission, error) {
	if _, err := s.staffRepo.FindByID(staffID); err != nil {
		return nil, s.staffLookupError(err)
	}

	unique := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	permissions, err := s.permissionRepo.FindByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(permissions) != len(unique) {
		found := make(map[int]struct{}, len(permissions))
		for _, p := range permissions {
			found[p.ID] = struct{}{}
		}
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				return nil, &UnknownPermissionError{ID: id}
			}
		}
	}

	if err := s.staffRepo.ReplacePermissions(staffID, permissions, updaterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"staff_id":    staffID,
		"permissions": len(permissions),
		"updated_by":  updaterID,
	}).Info("staff permissions replaced")

	if s.notifier != nil {
		s.notifier.Notify(ws.Event{
			Type:          ws.EventPermissionsUpdated,
			StaffID:       staffID,
			PermissionIDs: model.PermissionIDs(permissions),
		})
	}
	return permissions, nil
}

func (s *permissionService) staffLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStaffNotFound
	}
	return err
}
