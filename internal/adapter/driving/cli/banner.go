package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/skylens/cloud-spend-dashboard-go/pkg/version"
)

// displayWelcomeBanner prints the startup banner with version information.
func displayWelcomeBanner(versionStr string) {
	banner := `
         /$$$$$$  /$$                           /$$  /$$$$$$                                     /$$
        /$$__  $$| $$                          | $$ /$$__  $$                                   | $$
       | $$  \__/| $$  /$$$$$$  /$$   /$$  /$$$$$$$| $$  \__/  /$$$$$$   /$$$$$$  /$$$$$$$   /$$$$$$$
       | $$      | $$ /$$__  $$| $$  | $$ /$$__  $$|  $$$$$$  /$$__  $$ /$$__  $$| $$__  $$ /$$__  $$
       | $$      | $$| $$  \ $$| $$  | $$| $$  | $$ \____  $$| $$  \ $$| $$$$$$$$| $$  \ $$| $$  | $$
       | $$    $$| $$| $$  | $$| $$  | $$| $$  | $$ /$$  \ $$| $$  | $$| $$_____/| $$  | $$| $$  | $$
       |  $$$$$$/| $$|  $$$$$$/|  $$$$$$/|  $$$$$$$|  $$$$$$/| $$$$$$$/|  $$$$$$$| $$  | $$|  $$$$$$$
        \______/ |__/ \______/  \______/  \_______/ \______/ | $$____/  \_______/|__/  |__/ \_______/
                                                             | $$
                                                             | $$
                                                             |__/
       `
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(cyan(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Cloud Spend Dashboard CLI (v%s)", formattedVersion)))
}
