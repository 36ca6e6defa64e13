// starshot renders a GitHub contribution graph as an animated space
// shooter run.
//
// Usage:
//
//	starshot generate <username>  - Render an animation for a user
//	starshot policies             - List targeting policies
//	starshot history [username]   - Show render history
//	starshot serve                - Start the HTTP render service
//
// Global flags:
//
//	--config <path>  - Configuration file (default: search order)
//	--db <path>      - Render history database (default: ~/.starshot/renders.db)
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "starshot",
})

func main() {
	// A local .env may carry GH_TOKEN; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starshot",
	Short: "Starshot - turn a contribution graph into a space shooter animation",
	Long: `Starshot simulates a deterministic space shooter over a GitHub
contribution grid and encodes the run as a compact animated SVG or GIF.

Available commands:
  generate  - Fetch a user's graph and render an animation
  policies  - Show registered targeting policies
  history   - View past renders
  serve     - Start the HTTP render service

Examples:
  starshot generate torvalds --output torvalds.svg
  starshot generate torvalds --policy random --output run.gif
  starshot history torvalds
  starshot serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.starshot/renders.db", "Path to render history database")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
