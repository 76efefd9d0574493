package main

import (
	"fmt"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/session"

	"github.com/juju/collections/set"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAssignCmd(opts *globalOptions) *cobra.Command {
	var (
		staff  string
		grant  string
		revoke string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Grant and revoke permissions, then save the full resulting set",
		RunE: func(cmd *cobra.Command, args []string) error {
			grants, err := parseIDs(grant)
			if err != nil {
				return err
			}
			revokes, err := parseIDs(revoke)
			if err != nil {
				return err
			}
			if len(grants)+len(revokes) == 0 {
				return errors.New("nothing to do: pass --grant and/or --revoke")
			}
			if both := set.NewInts(grants...).Intersection(set.NewInts(revokes...)); !both.IsEmpty() {
				return errors.Errorf("permissions both granted and revoked: %v", both.SortedValues())
			}

			log := opts.logger()
			s, err := opts.openSession(cmd.Context(), staff, log)
			if err != nil {
				return err
			}
			defer s.Close()

			known := set.NewInts(model.PermissionIDs(s.Catalog())...)
			for _, id := range append(append([]int{}, grants...), revokes...) {
				if !known.Contains(id) {
					return errors.Errorf("permission %d is not in the catalog", id)
				}
			}

			for _, id := range grants {
				if !s.IsSelected(id) {
					if _, err := s.Toggle(id); err != nil {
						return err
					}
				}
			}
			for _, id := range revokes {
				if s.IsSelected(id) {
					if _, err := s.Toggle(id); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			added, removed := s.Changes()
			if !s.Dirty() {
				_, err := fmt.Fprintln(out, "no changes")
				return err
			}
			fmt.Fprintf(out, "grant: %v\nrevoke: %v\n", added, removed)
			if dryRun {
				return nil
			}

			unsubscribe := s.Subscribe(func(e session.PermissionsUpdated) {
				fmt.Fprintf(out, "saved %d permissions for %s\n", len(e.PermissionIDs), e.StaffID)
			})
			defer unsubscribe()
			return s.Save(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&staff, "staff", "", "Staff UUID (required)")
	cmd.Flags().StringVar(&grant, "grant", "", "Comma separated permission ids to grant")
	cmd.Flags().StringVar(&revoke, "revoke", "", "Comma separated permission ids to revoke")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the changes without saving")
	_ = cmd.MarkFlagRequired("staff")
	return cmd
}
