package catalog

import (
	"testing"

	"go-staff-permissions/internal/model"

	"github.com/stretchr/testify/assert"
)

func perm(id int, module string, typ model.PermissionType, name string) model.Permission {
	return model.Permission{ID: id, Module: module, Type: typ, Name: name}
}

func TestMerge_AppendsUnseenInArrivalOrder(t *testing.T) {
	catalog := []model.Permission{
		perm(3, "bank", model.TypeView, "bank.view"),
		perm(1, "bank", model.TypeModule, "bank.management"),
	}
	page := []model.Permission{
		perm(1, "bank", model.TypeModule, "bank.management"),
		perm(7, "customer", model.TypeEdit, "customer.edit"),
		perm(5, "customer", model.TypeCreate, "customer.create"),
	}

	merged := Merge(catalog, page)

	assert.Equal(t, []int{3, 1, 7, 5}, model.PermissionIDs(merged))
	assert.Len(t, catalog, 2, "input catalog must not change")
}

func TestMerge_Idempotent(t *testing.T) {
	page := []model.Permission{
		perm(2, "sales_invoice", model.TypeCreate, "sales_invoice.create"),
		perm(1, "sales_invoice", model.TypeModule, "sales_invoice.management"),
	}
	base := []model.Permission{perm(9, "report", model.TypeView, "report.view")}

	once := Merge(base, page)
	twice := Merge(once, page)

	assert.Equal(t, once, twice)
}

func TestMerge_DuplicatesInsidePage(t *testing.T) {
	page := []model.Permission{
		perm(4, "bank", model.TypeEdit, "bank.edit"),
		perm(4, "bank", model.TypeEdit, "bank.edit"),
	}

	merged := Merge(nil, page)

	assert.Equal(t, []int{4}, model.PermissionIDs(merged))
}

func TestMerge_DoesNotAliasInput(t *testing.T) {
	catalog := make([]model.Permission, 1, 10)
	catalog[0] = perm(1, "bank", model.TypeModule, "bank.management")

	a := Merge(catalog, []model.Permission{perm(2, "bank", model.TypeView, "bank.view")})
	b := Merge(catalog, []model.Permission{perm(3, "bank", model.TypeEdit, "bank.edit")})

	assert.Equal(t, []int{1, 2}, model.PermissionIDs(a))
	assert.Equal(t, []int{1, 3}, model.PermissionIDs(b))
}
