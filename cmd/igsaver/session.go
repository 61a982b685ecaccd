package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igsaver/pkg/config"
	"igsaver/pkg/instagram"
	"igsaver/pkg/session"
	"igsaver/pkg/ui"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved login sessions",
	Long: `Manage the login sessions saved after a successful authentication.

Sessions live in the directory named by IGSAVER_SESSION_DIR (default
.sessions) or in the system keychain when advanced.session_backend is
"keyring". Removing a session forces a password login on the next run.`,
}

// sessionListCmd represents the session list command
var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts with a saved session",
	Args:  cobra.NoArgs,
	Run:   runSessionList,
}

// sessionRemoveCmd represents the session remove command
var sessionRemoveCmd = &cobra.Command{
	Use:     "remove <username>",
	Aliases: []string{"rm"},
	Short:   "Remove the saved session of an account",
	Example: `  igsaver session remove myusername`,
	Args:    cobra.ExactArgs(1),
	Run:     runSessionRemove,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
}

func openSessionStore() session.Store {
	env := config.LoadEnvironment(envFile)
	cfg, warnings := config.Load(configFile)
	for _, w := range warnings {
		ui.PrintWarning(w)
	}

	store, err := session.Open(cfg.Advanced.SessionBackend, env.SessionDir, env.SessionPassphrase)
	if err != nil {
		ui.PrintError("Failed to open session storage", err.Error())
		os.Exit(1)
	}
	return store
}

func runSessionList(cmd *cobra.Command, args []string) {
	store := openSessionStore()

	names, err := store.List()
	if err != nil {
		ui.PrintError("Failed to list sessions", err.Error())
		os.Exit(1)
	}

	if len(names) == 0 {
		ui.PrintInfo("No saved sessions found.")
		return
	}

	ui.PrintHighlight("Saved sessions")
	for i, name := range names {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func runSessionRemove(cmd *cobra.Command, args []string) {
	username := instagram.SanitizeUsername(args[0])
	store := openSessionStore()

	if err := store.Delete(username); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			ui.PrintError("No saved session for " + username)
		} else {
			ui.PrintError("Failed to remove session", err.Error())
		}
		os.Exit(1)
	}

	ui.PrintSuccess("Session removed for " + username)
}
