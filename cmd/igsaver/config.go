package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igsaver/pkg/config"
	"igsaver/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Manage the igsaver settings file.

Settings are read from config.yaml in the current directory unless another
file is given with --config. A missing file means the defaults are used; a
malformed one is reported as a warning and the defaults are used as well.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the default values",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the settings file",
	Long: `Validate the settings file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Date bounds and media type filters
  - Value ranges
  - Filename patterns`,
	Args: cobra.NoArgs,
	Run:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPath
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := configPath()

	if _, err := os.Stat(path); err == nil {
		ui.PrintError("Configuration file already exists", path)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", path)
		os.Exit(1)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the filters and output options")
	fmt.Println("2. Run 'igsaver config validate' to check the configuration")
	fmt.Println("3. Start a backup with 'igsaver <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	path := configPath()
	cfg, warnings := config.Load(path)
	for _, w := range warnings {
		ui.PrintWarning(w)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("\nSource: %s\n", path)
	} else {
		fmt.Printf("\nSource: defaults (%s not found)\n", path)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	path := configPath()
	if _, err := os.Stat(path); err != nil {
		ui.PrintError("No configuration file found", path)
		os.Exit(1)
	}

	ui.PrintInfo("Validating configuration: " + path)

	cfg, warnings := config.Load(path)
	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration has errors:")
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("  - %s\n", line)
		}
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Video quality: %s\n", cfg.Download.VideoQuality)
	fmt.Printf("  Delay between items: %.1fs\n", cfg.Advanced.DelayBetweenItems)
	fmt.Printf("  Concurrent downloads: %d\n", cfg.Advanced.ConcurrentDownloads)
	fmt.Printf("  Request timeout: %ds\n", cfg.Advanced.RequestTimeout)
	fmt.Printf("  Session backend: %s\n", cfg.Advanced.SessionBackend)
	fmt.Printf("  Log level: %s\n", cfg.Advanced.LogLevel)
}
