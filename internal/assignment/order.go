package assignment

import (
	"sort"

	"go-staff-permissions/internal/model"
)

// ComputeOrder returns the display order of catalog: granted permissions
// first, then by module, module-typed entries ahead of the module's actions,
// then by name. Ties keep catalog order. The input is not modified.
func ComputeOrder(catalog []model.Permission, baseline *Set) []model.Permission {
	out := make([]model.Permission, len(catalog))
	copy(out, catalog)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ai, bi := baseline.Contains(a.ID), baseline.Contains(b.ID); ai != bi {
			return ai
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if am, bm := a.Type == model.TypeModule, b.Type == model.TypeModule; am != bm {
			return am
		}
		return a.Name < b.Name
	})
	return out
}
