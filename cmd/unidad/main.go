package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/migrate"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/roles"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/server"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/interfaces/cli/worker"
)

// @title Unidad Announcements API
// @version 1.0
// @description Announcement distribution and read tracking for Corredora Unidad.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	rootCmd := &cobra.Command{
		Use:          "unidad",
		Short:        "Unidad - announcement distribution service",
		Long:         `Unidad publishes announcements to role-based audiences, tracks who has read them and streams unread badges.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		roles.NewCommand(),
		worker.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
