package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PermissionType is the action a permission grants inside its module.
type PermissionType string

const (
	TypeModule PermissionType = "module"
	TypeCreate PermissionType = "create"
	TypeEdit   PermissionType = "edit"
	TypeDelete PermissionType = "delete"
	TypeView   PermissionType = "view"
	TypeShare  PermissionType = "share"
)

var permissionTypes = []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeDelete, TypeView, TypeShare}

func (t PermissionType) Valid() bool {
	for _, known := range permissionTypes {
		if t == known {
			return true
		}
	}
	return false
}

func ParsePermissionType(s string) (PermissionType, error) {
	t := PermissionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown permission type %q", s)
	}
	return t, nil
}

// Permission is one entry of the permission catalog, e.g. "sales_invoice.create".
type Permission struct {
	ID          int            `gorm:"primaryKey" json:"id" validate:"gt=0"`
	Module      string         `gorm:"type:varchar(100);index;not null" json:"module" validate:"required"`
	Name        string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"name" validate:"required"`
	Title       string         `gorm:"type:varchar(150)" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Type        PermissionType `gorm:"type:varchar(20);not null" json:"type" validate:"enum"`
}

// CatalogPage is one page of the permission catalog.
type CatalogPage struct {
	Items       []Permission `json:"items" validate:"dive"`
	CurrentPage int          `json:"current_page" validate:"min=1"`
	LastPage    int          `json:"last_page" validate:"min=1"`
}

// HasMore reports whether pages after this one exist.
func (p *CatalogPage) HasMore() bool {
	return p.CurrentPage < p.LastPage
}

// ManagementAction is the action suffix of module-typed permissions.
const ManagementAction = "management"

// DefaultModules lists the modules seeded into an empty catalog and the
// action types each one supports.
var DefaultModules = []struct {
	Module string
	Types  []PermissionType
}{
	{"sales_invoice", []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeDelete, TypeView, TypeShare}},
	{"purchase_order", []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeDelete, TypeView}},
	{"customer", []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeDelete, TypeView}},
	{"bank", []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeView}},
	{"staff", []PermissionType{TypeModule, TypeCreate, TypeEdit, TypeDelete, TypeView}},
	{"report", []PermissionType{TypeModule, TypeView, TypeShare}},
}

// DefaultPermissions expands DefaultModules into catalog entries without ids.
func DefaultPermissions() []Permission {
	title := cases.Title(language.English)
	var permissions []Permission
	for _, m := range DefaultModules {
		subject := strings.ReplaceAll(m.Module, "_", " ")
		for _, t := range m.Types {
			action := string(t)
			if t == TypeModule {
				action = ManagementAction
			}
			permissions = append(permissions, Permission{
				Module:      m.Module,
				Name:        m.Module + "." + action,
				Title:       title.String(action + " " + subject),
				Description: fmt.Sprintf("Allows %s access to %s", action, subject),
				Type:        t,
			})
		}
	}
	return permissions
}

// PermissionIDs returns the ids of permissions in their given order.
func PermissionIDs(permissions []Permission) []int {
	ids := make([]int, len(permissions))
	for i, p := range permissions {
		ids[i] = p.ID
	}
	return ids
}

// PermissionNames returns the names of permissions in their given order.
func PermissionNames(permissions []Permission) []string {
	names := make([]string, len(permissions))
	for i, p := range permissions {
		names[i] = p.Name
	}
	return names
}

// Permissions guarding the permission API itself.
const (
	PermissionStaffView = "staff.view"
	PermissionStaffEdit = "staff.edit"
)
