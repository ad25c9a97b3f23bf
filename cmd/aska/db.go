package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/sdnsembar01/aska/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBMigrateCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var (
		configPath    string
		adminUser     string
		adminName     string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ASKA database",
		Long:  "Migrates all tables, enables pgvector for the knowledge base, and seeds the initial admin account.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath, adminUser, adminName, adminPassword)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "aska.yaml", "path to ASKA config file")
	cmd.Flags().StringVar(&adminUser, "admin-user", "admin", "username for the initial admin account")
	cmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "display name for the initial admin account")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for the initial admin account (skip seeding when empty)")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath, adminUser, adminName, adminPassword string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Connected to %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if err := db.AutoMigrateVector(gormDB); err != nil {
		return err
	}
	fmt.Fprintln(out, "pgvector extension enabled, document table ready")

	if adminPassword == "" {
		fmt.Fprintln(out, "No --admin-password given; skipping admin seed")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.SeedAdmin(gormDB, adminUser, adminName, string(hash)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Admin account %q ready\n", adminUser)

	fmt.Fprintln(out, "\nASKA database initialized successfully.")
	return nil
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema changes to an existing database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBMigrate(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "aska.yaml", "path to ASKA config file")
	return cmd
}

func runDBMigrate(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if err := db.AutoMigrateVector(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Schema up to date (%d core tables + documents)\n", len(db.AllModels()))
	return nil
}
