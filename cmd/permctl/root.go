package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"go-staff-permissions/internal/remote"
	"go-staff-permissions/internal/session"
	"go-staff-permissions/pkg/config"
	"go-staff-permissions/pkg/logging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	baseURL  string
	token    string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	_, envErr := config.LoadEnv(".env")
	cfg, cfgErr := config.LoadClient()
	if cfg == nil {
		cfg = &config.ClientConfig{}
	}
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "permctl",
		Short:         "Inspect and edit staff permissions through the permission API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			// flags can still repair a bad environment
			if cfgErr != nil && !cmd.Flags().Changed("base-url") {
				return cfgErr
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", cfg.BaseURL, "Permission API base URL (PERMISSIONS_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", cfg.Token, "Bearer token (PERMISSIONS_API_TOKEN)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.Timeout, "Per-request timeout, 0 for none")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level")

	cmd.AddCommand(newShowCmd(opts), newAssignCmd(opts))
	return cmd
}

func (o *globalOptions) logger() *logrus.Logger {
	log := logging.ConsoleLogger(logging.ParseLevel(o.logLevel))
	log.SetOutput(os.Stderr)
	return log
}

// openSession opens a session for the staff member and loads every catalog page.
func (o *globalOptions) openSession(ctx context.Context, staff string, log *logrus.Logger) (*session.Session, error) {
	staffID, err := uuid.Parse(staff)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --staff")
	}
	client := remote.NewClient(o.baseURL, remote.NewStaticToken(o.token),
		remote.WithTimeout(o.timeout), remote.WithLogger(log))

	s := session.New(staffID, client, session.WithLogger(log))
	if err := s.Open(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.LoadAll(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// parseIDs reads a comma separated list such as "1,2, 5".
func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, errors.Errorf("invalid permission id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.New().WithError(err).Error("permctl failed")
		os.Exit(1)
	}
}
