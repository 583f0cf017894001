package main

import (
	"fmt"
	"os"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dumplist configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dumplist/config.yaml (if set)
  2. ~/.config/dumplist/config.yaml

Environment variables can override config file settings using the DUMPLIST_ prefix:
  DUMPLIST_LIST_FILE=MD5SUMS
  DUMPLIST_OUTPUT=pretty
  DUMPLIST_HISTORY_ENABLED=false`,
	Args: noArgs,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	Args:  noArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	Args:  noArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	Args:  noArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg := currentConfig()

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("list_file:                %s\n", cfg.ListFile)
	fmt.Printf("ignore:                   %v\n", cfg.Ignore)
	fmt.Printf("output:                   %s\n", cfg.Output)
	fmt.Printf("walk.workers:             %d\n", cfg.Walk.Workers)
	fmt.Printf("history.enabled:          %t\n", cfg.History.Enabled)
	fmt.Printf("history.path:             %s\n", cfg.History.Path)
	fmt.Printf("history.retention_days:   %d\n", cfg.History.RetentionDays)
	fmt.Printf("logging.level:            %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	fmt.Printf("logging.path:             %s\n", logPath)

	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"DUMPLIST_LIST_FILE",
		"DUMPLIST_IGNORE",
		"DUMPLIST_OUTPUT",
		"DUMPLIST_WALK_WORKERS",
		"DUMPLIST_HISTORY_ENABLED",
		"DUMPLIST_HISTORY_PATH",
		"DUMPLIST_HISTORY_RETENTION_DAYS",
		"DUMPLIST_LOGGING_LEVEL",
		"DUMPLIST_LOGGING_PATH",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if !created {
		printInfo("Config file already exists: %s", configPath)
		return nil
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	fmt.Println(configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
