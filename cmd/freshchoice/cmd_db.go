package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/freshchoice/storefront/config"
	"github.com/freshchoice/storefront/database/seeders"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/migration"
)

// withDB loads config, opens the database and closes it after fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck
	return fn(db)
}

// freshchoice migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running migrations…")
			n, err := migration.New(db, os.Stdout).Run()
			if err == nil && n > 0 {
				fmt.Printf("✅ %d migration(s) ran\n", n)
			}
			return err
		})
	},
}

// freshchoice migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Rolling back last batch…")
			_, err := migration.New(db, os.Stdout).Rollback()
			return err
		})
	},
}

// freshchoice migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, os.Stdout).PrintStatus()
		})
	},
}

// freshchoice seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the allergen list and the product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Println("Running seeders…")
			return seeders.RunAll(db, os.Stdout)
		})
	},
}
