package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go-staff-permissions/internal/model"
	"go-staff-permissions/internal/repository"
	"go-staff-permissions/pkg/config"
	"go-staff-permissions/pkg/database"
	"go-staff-permissions/pkg/jwt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type tokenOutput struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
	Staff     model.StaffResponse `json:"staff"`
}

func newRootCmd() *cobra.Command {
	var (
		staffID string
		email   string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:          "issue-token",
		Short:        "Mint a bearer token carrying a staff member's permissions",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (staffID == "") == (email == "") {
				return errors.New("exactly one of --staff or --email is required")
			}
			if _, err := config.LoadEnv(".env"); err != nil {
				return err
			}
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}

			db, err := database.Connect(cfg.DSN())
			if err != nil {
				return err
			}
			staffRepo := repository.NewStaffRepo(db)

			var staff *model.StaffMember
			if staffID != "" {
				id, parseErr := uuid.Parse(staffID)
				if parseErr != nil {
					return fmt.Errorf("invalid --staff: %w", parseErr)
				}
				staff, err = staffRepo.FindByID(id)
			} else {
				staff, err = staffRepo.FindByEmail(email)
			}
			if err != nil {
				return errors.Wrap(err, "staff lookup")
			}
			if !staff.IsActive {
				return errors.Errorf("staff member %s is inactive", staff.Email)
			}

			token, err := jwt.GenerateToken([]byte(cfg.JWTSecret), ttl, staff.ID, staff.Email, staff.FullName,
				model.PermissionNames(staff.Permissions))
			if err != nil {
				return err
			}
			expiresAt, err := jwt.ExpiresAt(token)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(tokenOutput{Token: token, ExpiresAt: expiresAt, Staff: staff.ToResponse()})
		},
	}

	cmd.Flags().StringVar(&staffID, "staff", "", "Staff UUID")
	cmd.Flags().StringVar(&email, "email", "", "Staff email (default admin is "+model.DefaultAdminEmail+")")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to JWT_TTL)")
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
