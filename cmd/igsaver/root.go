package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"igsaver/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	envFile    string
	noColor    bool

	// Backup flags
	authUser       string
	outputDir      string
	highlightsOnly bool
	storiesMode    bool
	skipExisting   bool
	force          bool
	listOnly       bool
	quiet          bool
	verbose        bool
	noProgress     bool
)

// rootCmd runs a backup when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "igsaver [username]",
	Short: "Instagram Highlights Backup Tool",
	Long: `igsaver backs up the highlights and stories of an Instagram account to a
local directory tree. Items already on disk are skipped, so repeated runs
only fetch what is new.

The password is never stored. After the first login only a session token
is kept, either in a file under the sessions directory or in the system
keychain.`,
	Example: `  # Download your own highlights
  igsaver

  # Download from a specific user
  igsaver username

  # Custom output directory
  igsaver -o /path/to/backups username

  # List highlights without downloading
  igsaver --list username

  # Force re-download everything
  igsaver --force

  # Active stories instead of highlights
  igsaver --stories username`,
	Args:    cobra.MaximumNArgs(1),
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor)
	},
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runBackup(cmd.Context(), args))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "settings file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file with IG_USERNAME and IGSAVER_* variables")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	flags := rootCmd.Flags()
	flags.StringVarP(&authUser, "user", "u", "", "username for authentication (instead of IG_USERNAME)")
	flags.BoolVar(&highlightsOnly, "highlights-only", false, "download only highlights (default behavior)")
	flags.BoolVar(&storiesMode, "stories", false, "download active stories (24h) instead of highlights")
	flags.BoolVar(&skipExisting, "skip-existing", true, "skip already downloaded items")
	flags.BoolVar(&force, "force", false, "re-download all items (disable incremental backup)")
	flags.StringVarP(&outputDir, "output", "o", "", "output directory (default is ./backups)")
	flags.BoolVar(&listOnly, "list", false, "list available highlights without downloading")
	flags.BoolVarP(&quiet, "quiet", "q", false, "minimal output (errors only)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug info)")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress bars")

	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("highlights-only", "stories")

	rootCmd.SetVersionTemplate(`igsaver {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
