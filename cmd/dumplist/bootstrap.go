package main

import (
	"fmt"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initializeLogging is the PersistentPreRunE hook. It loads the
// configuration, creates the XDG directories and starts logging. The bare
// root command only reports a usage error and is left alone.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	if !cmd.HasParent() {
		return nil
	}

	v := viper.GetViper()
	config.Configure(v, cfgFile)
	if err := config.Read(v); err != nil {
		return err
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	appConfig = cfg

	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.EnsureStateDir(); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	logCfg := logging.Config{
		Level:        cfg.Logging.Level,
		Path:         cfg.Logging.Path,
		Rotation:     parseRotationConfig(cfg.Logging.Rotation),
		Components:   cfg.Logging.Components,
		ConsoleLevel: consoleLevel(),
	}
	if logCfg.Path == "" {
		logCfg.Path = config.DefaultLogPath()
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		printVerbose("Using config file %s", used)
	}
	return nil
}

// consoleLevel mirrors log records to stderr: debug with --verbose,
// nothing with --quiet, errors otherwise.
func consoleLevel() string {
	switch {
	case getQuiet():
		return ""
	case getVerbose():
		return "debug"
	default:
		return "error"
	}
}

// parseRotationConfig converts the config file representation to the
// logging package's. An empty or invalid max_size uses the default.
func parseRotationConfig(cfg config.RotationConfig) logging.RotationConfig {
	rc := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Daily:      cfg.Daily,
	}
	if cfg.MaxSize != "" {
		if size, err := types.ParseSize(cfg.MaxSize); err == nil {
			rc.MaxSize = size
		}
	}
	return rc
}
