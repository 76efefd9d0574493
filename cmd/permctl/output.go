package main

import (
	"fmt"
	"io"

	"go-staff-permissions/internal/model"

	"github.com/gosuri/uitable"
)

func writePermissionTable(w io.Writer, permissions []model.Permission, selected func(int) bool) error {
	table := uitable.New()
	table.MaxColWidth = 50
	table.Wrap = true
	table.RightAlign(0)

	table.AddRow("ID", "Name", "Title", "Type", "Granted")
	for _, p := range permissions {
		mark := ""
		if selected(p.ID) {
			mark = "yes"
		}
		table.AddRow(p.ID, p.Name, p.Title, p.Type, mark)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}
