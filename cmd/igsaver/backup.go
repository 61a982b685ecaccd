package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"igsaver/pkg/auth"
	"igsaver/pkg/backup"
	"igsaver/pkg/config"
	errs "igsaver/pkg/errors"
	"igsaver/pkg/instagram"
	"igsaver/pkg/logger"
	"igsaver/pkg/session"
	"igsaver/pkg/stats"
	"igsaver/pkg/ui"
)

// runBackup performs a full run and returns the process exit code
func runBackup(ctx context.Context, args []string) int {
	ui.SetQuietMode(quiet)
	ui.PrintHeader(ui.Banner)

	env := config.LoadEnvironment(envFile)
	cfg, warnings := config.Load(configFile)
	for _, w := range warnings {
		ui.PrintWarning(w)
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintWarning("Configuration problems found", err.Error())
	}

	log, err := setupLogger(cfg, env)
	if err != nil {
		ui.PrintError("Failed to set up logging", err.Error())
		return 1
	}
	defer logger.Close(log)
	logger.Initialize(log)

	log.WithFields(map[string]interface{}{
		"version": version,
		"config":  configFile,
	}).Info("igsaver starting")

	var store session.Store
	if s, err := session.Open(cfg.Advanced.SessionBackend, env.SessionDir, env.SessionPassphrase); err != nil {
		log.WithError(err).Warn("session storage unavailable")
		ui.PrintWarning("Session storage unavailable, the session will not be saved", err.Error())
	} else {
		store = s
	}

	client := instagram.NewClient(cfg.Timeout(), log)
	authenticator := auth.NewAuthenticator(client, store, auth.NewTerminalPrompter(), log)

	username := authUser
	if username == "" {
		username = env.Username
	}
	authenticated, err := authenticator.Authenticate(ctx, instagram.SanitizeUsername(username))
	if err != nil {
		log.WithError(err).Error("authentication failed")
		ui.PrintError(errs.MessageOf(err))
		return 1
	}

	target, self := resolveTarget(args, authenticated)

	root := outputDir
	if root == "" {
		root = env.BackupDir
	}
	b, err := backup.New(client, cfg, root, log)
	if err != nil {
		log.WithError(err).Error("cannot prepare backup")
		ui.PrintError(errs.MessageOf(err))
		return 1
	}

	opts := backup.Options{
		Target:       target,
		Self:         self,
		Mode:         selectedMode(),
		SkipExisting: skipExisting && !force,
		ListOnly:     listOnly,
		Progress:     !noProgress && !quiet && ui.IsTerminal(ui.Output()),
	}

	// Interrupts stop the run between items; a second one kills the process.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-runCtx.Done()
		stop()
	}()

	st, err := b.Run(runCtx, opts)
	if err != nil {
		if runCtx.Err() != nil {
			ui.Println()
			ui.PrintWarning("Operation cancelled by user")
			log.Warn("backup interrupted")
			printSummary(st, target, b.OutputDir())
			return 1
		}
		log.WithError(err).Error("backup failed")
		ui.PrintError(errs.MessageOf(err))
		return 1
	}

	if !listOnly {
		printSummary(st, target, b.OutputDir())
	}
	return st.ExitCode()
}

func setupLogger(cfg *config.Config, env config.Environment) (logger.Logger, error) {
	opts := logger.Options{
		ConsoleLevel: consoleLevel(quiet, verbose),
		FileLevel:    cfg.Advanced.LogLevel,
		File:         logger.RunLogPath(env.LogsDir, time.Now()),
		Console:      os.Stderr,
		NoColor:      noColor,
	}
	if verbose {
		opts.FileLevel = "debug"
	}

	log, err := logger.New(opts)
	if err == nil {
		return log, nil
	}

	ui.PrintWarning("Could not open log file, logging to the console only", err.Error())
	opts.File = ""
	return logger.New(opts)
}

// consoleLevel maps the output flags to the console log level. The log
// file keeps the configured level.
func consoleLevel(quiet, verbose bool) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	default:
		return "warn"
	}
}

// resolveTarget picks the account to back up; without an argument it is
// the authenticated account itself
func resolveTarget(args []string, authenticated string) (string, bool) {
	target := ""
	if len(args) > 0 {
		target = instagram.SanitizeUsername(args[0])
	}
	if target == "" {
		target = authenticated
	}
	return target, strings.EqualFold(target, authenticated)
}

func selectedMode() backup.Mode {
	if storiesMode {
		return backup.ModeStories
	}
	return backup.ModeHighlights
}

func printSummary(st *stats.Stats, target, outputDir string) {
	if st == nil || ui.IsQuiet() {
		return
	}
	ui.Println(st.Report(target, outputDir))
}
