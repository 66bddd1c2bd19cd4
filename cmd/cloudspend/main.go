package main

import (
	"fmt"
	"os"

	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/config"
	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/export"
	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/prefs"
	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driving/cli"
	"github.com/skylens/cloud-spend-dashboard-go/pkg/console"
	"github.com/skylens/cloud-spend-dashboard-go/pkg/version"
)

func main() {
	consoleImpl := console.NewConsole()
	configRepo := config.NewConfigRepository()
	prefsRepo := prefs.NewPrefsRepository("")
	exportRepo := export.NewExportRepository()

	app := cli.NewCLIApp(version.Version, consoleImpl, configRepo, prefsRepo, exportRepo)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
