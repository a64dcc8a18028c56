package main

import (
	"context"
	"fmt"

	"github.com/fekuna/stockflow-service/internal/session/repository"
	"github.com/fekuna/stockflow-service/internal/session/usecase"
	"github.com/fekuna/stockflow-service/internal/setup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adminUsername string
	adminPassword string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Apply the schema and create the admin account",
	Long: `Apply the database schema and create the admin account if it does not
exist. Schema statements that fail are logged and skipped. Without a
password one is generated and printed once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, closeDB, err := newRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		username := firstNonEmpty(adminUsername, cfg.Admin.Username)
		res, err := runner.Setup(cmd.Context(), username, firstNonEmpty(adminPassword, cfg.Admin.Password))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "schema: %d statements applied, %d skipped\n", res.Applied, res.Skipped)
		if res.FirstRun {
			fmt.Fprintln(out, "first run: no admin account existed")
		}
		switch {
		case res.Password != "":
			fmt.Fprintf(out, "created admin %q with password: %s\n", res.Username, res.Password)
		case res.Created:
			fmt.Fprintf(out, "created admin %q\n", res.Username)
		default:
			fmt.Fprintf(out, "admin %q already exists\n", res.Username)
		}
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Replace the password of an admin account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, closeDB, err := newRunner(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		username := firstNonEmpty(adminUsername, cfg.Admin.Username)
		res, err := runner.ResetPassword(cmd.Context(), username, adminPassword)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		verb := "updated"
		if res.Created {
			verb = "created"
		}
		if res.Password != "" {
			fmt.Fprintf(out, "%s admin %q with password: %s\n", verb, res.Username, res.Password)
		} else {
			fmt.Fprintf(out, "%s admin %q\n", verb, res.Username)
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&adminUsername, "admin-username", "", "admin username (default ADMIN_USERNAME)")
	setupCmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin password (default ADMIN_PASSWORD, generated when empty)")

	resetPasswordCmd.Flags().StringVar(&adminUsername, "username", "", "account to reset (default ADMIN_USERNAME)")
	resetPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "new password (generated when empty)")
}

func newRunner(ctx context.Context) (*setup.Runner, func(), error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	sessions := usecase.NewSessionUseCase(repository.NewSQLRepository(db), cfg.Session.TTL, appLogger)
	return setup.NewRunner(db, cfg.Database.Driver, sessions, appLogger), func() { _ = db.Close() }, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
