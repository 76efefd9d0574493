// Package catalog loads the permission catalog page by page and keeps the
// pages merged into one list without duplicates.
package catalog

import "go-staff-permissions/internal/model"

// Merge returns catalog followed by every item of page whose id catalog does
// not hold yet, in first-seen order. Neither argument is modified, so merging
// the same page again yields an equal list.
func Merge(catalog []model.Permission, page []model.Permission) []model.Permission {
	seen := make(map[int]struct{}, len(catalog)+len(page))
	out := make([]model.Permission, len(catalog), len(catalog)+len(page))
	copy(out, catalog)
	for _, p := range catalog {
		seen[p.ID] = struct{}{}
	}
	for _, p := range page {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
