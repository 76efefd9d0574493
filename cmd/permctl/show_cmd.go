package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		staff string
		query string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the permission catalog with a staff member's grants first",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger()
			s, err := opts.openSession(cmd.Context(), staff, log)
			if err != nil {
				return err
			}
			defer s.Close()

			s.SetQuery(query)
			view := s.View()
			out := cmd.OutOrStdout()
			if err := writePermissionTable(out, view, s.IsGranted); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d shown, %d of %d granted\n", len(view), s.CountSelected(), len(s.Catalog()))
			return err
		},
	}

	cmd.Flags().StringVar(&staff, "staff", "", "Staff UUID (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search over name, description and module")
	_ = cmd.MarkFlagRequired("staff")
	return cmd
}
