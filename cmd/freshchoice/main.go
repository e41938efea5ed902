// Command freshchoice runs and administers the Fresh Choice storefront.
//
//	freshchoice serve
//	freshchoice migrate
//	freshchoice seed
//	freshchoice route:list
//	freshchoice schedule:list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations through their init() funcs.
	_ "github.com/freshchoice/storefront/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "freshchoice",
	Short:         "Fresh Choice storefront",
	Long:          "Fresh Choice storefront API: accounts, allergen preferences, catalog and barcode checkout.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(scheduleListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
