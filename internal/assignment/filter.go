package assignment

import (
	"strings"

	"go-staff-permissions/internal/model"

	"golang.org/x/text/cases"
)

// Filter returns the permissions whose name, description or module contains
// query, ignoring case, in catalog order. Whitespace around query is trimmed
// first, so " create" matches "bank.create".
func Filter(catalog []model.Permission, query string) []model.Permission {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(query))
	out := make([]model.Permission, 0, len(catalog))
	for _, p := range catalog {
		if strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Description), needle) ||
			strings.Contains(fold.String(p.Module), needle) {
			out = append(out, p)
		}
	}
	return out
}

// View is what a permission list shows: the grouped order when query is
// blank, otherwise the plain search matches. Search results are not grouped
// by the baseline.
func View(catalog []model.Permission, baseline *Set, query string) []model.Permission {
	if strings.TrimSpace(query) == "" {
		return ComputeOrder(catalog, baseline)
	}
	return Filter(catalog, query)
}
