package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahilchouksey/admissions-api/config"
	"github.com/sahilchouksey/admissions-api/database"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"github.com/spf13/cobra"
)

// openStore connects to the configured database. Tests replace it.
var openStore = func(env *config.EnviornmentVariable) (database.Storage, error) {
	return database.StartGORM(env)
}

// loadEnv reads .env and the process environment
var loadEnv = func() (*config.EnviornmentVariable, error) {
	if err := config.LoadENV(); err != nil {
		return nil, err
	}
	return config.Get()
}

// withStore opens and migrates the database, runs fn and closes it again
func withStore(fn func(env *config.EnviornmentVariable, store database.Storage) error) error {
	env, err := loadEnv()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	store, err := openStore(env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return fn(env, store)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admissionsctl",
		Short:         "Maintenance commands for the admissions API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCreateStaffCmd(), newPurgeSessionsCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(_ *config.EnviornmentVariable, _ database.Storage) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog and the staff account from ADMIN_* variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(env *config.EnviornmentVariable, store database.Storage) error {
				seeder := database.NewSeeder(store.GetDB())
				if err := seeder.SeedAll(env.ADMIN_EMAIL, env.ADMIN_USERNAME, env.ADMIN_PASSWORD); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Seeding completed")
				return nil
			})
		},
	}
}

func newCreateStaffCmd() *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "create-staff",
		Short: "Create a staff account, or promote an existing one",
		Long: `Creates a staff user with the given credentials. If an account with the
email already exists it is promoted to staff and its password is left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(env *config.EnviornmentVariable, store database.Storage) error {
				if email == "" {
					email = env.ADMIN_EMAIL
				}
				if username == "" {
					username = env.ADMIN_USERNAME
				}
				if password == "" {
					password = env.ADMIN_PASSWORD
				}
				if email == "" || password == "" {
					return errors.New("--email and --password (or ADMIN_EMAIL and ADMIN_PASSWORD) are required")
				}

				user, err := database.NewSeeder(store.GetDB()).SeedStaffUser(email, username, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Staff user %s (id %d) ready\n", user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the staff account")
	cmd.Flags().StringVar(&username, "username", "", "username of the staff account")
	cmd.Flags().StringVar(&password, "password", "", "password of the staff account")
	return cmd
}

func newPurgeSessionsCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete session tokens older than a given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(env *config.EnviornmentVariable, store database.Storage) error {
				if olderThan <= 0 {
					olderThan = env.SESSION_MAX_AGE
				}
				if olderThan <= 0 {
					return errors.New("--older-than (or SESSION_MAX_AGE) must be positive")
				}

				// Purging only needs the table, not a signing key
				sessions := auth.NewSessionStore(store.GetDB(), nil)
				purged, err := sessions.PurgeOlderThan(context.Background(), time.Now().Add(-olderThan))
				if err != nil {
					return fmt.Errorf("failed to purge sessions: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged %d sessions older than %s\n", purged, olderThan)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "maximum session age, e.g. 720h")
	return cmd
}
