package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/output"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	appConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:   "dumplist <command>",
		Short: "Maintain a SHA256SUMS inventory of a directory tree",
		Long: `Dumplist keeps a listing of every file below the current directory with
its modification time, an MD5+SHA-1 parity token and a SHA-256 digest.

Commands:
  check      report new, deleted and modified files (mtime only)
  test       like check, and verify parity and digest of every file
  generate   rebuild the listing from scratch
  update     add new files, rehash modified ones, drop deleted ones
  touchdir   set each directory's mtime to its newest file

A leading dash on the command is accepted (dumplist --update).

Examples:
  dumplist generate            # Write SHA256SUMS for the current tree
  dumplist check               # List what changed since
  dumplist test -o pretty      # Full verification with a summary
  dumplist update -l sums.txt  # Maintain a differently named listing
  dumplist history             # View previous runs`,
		Args:              rootArgs,
		RunE:              runRoot,
		PersistentPreRunE: initializeLogging,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/dumplist/config.yaml)")
	rootCmd.PersistentFlags().StringP("list", "l", config.DefaultListFile, "listing file")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutput, "output format: "+strings.Join(output.Available(), ", "))
	rootCmd.PersistentFlags().StringSliceP("ignore", "i", nil, "additional file or directory to ignore (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record this run in the history log")

	// Bind flags to viper
	_ = viper.BindPFlag("list_file", rootCmd.PersistentFlags().Lookup("list"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("ignore", rootCmd.PersistentFlags().Lookup("ignore"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_history", rootCmd.PersistentFlags().Lookup("no-history"))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// usageError is a missing, unknown or malformed command line. It is
// detected before any file is touched.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// rootArgs rejects anything that did not resolve to a subcommand.
func rootArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q", args[0])
	}
	return nil
}

// noArgs is cobra.NoArgs reporting a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("%s takes no arguments, got %q", cmd.Name(), args[0])
	}
	return nil
}

func runRoot(_ *cobra.Command, _ []string) error {
	return usageErrorf("missing command")
}

// coreCommands may be written with leading dashes.
var coreCommands = map[string]bool{
	reconcile.OpCheck:    true,
	reconcile.OpTest:     true,
	reconcile.OpGenerate: true,
	reconcile.OpUpdate:   true,
	opTouchdir:           true,
}

// normalizeArgs strips a leading "-" or "--" from the first argument that
// names a core command, so "dumplist --update" runs update.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if !strings.HasPrefix(arg, "-") {
			if coreCommands[arg] {
				break
			}
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if coreCommands[name] {
			out[i] = name
			break
		}
	}
	return out
}

// exitCode reports err on w and maps it to a process exit status.
// Usage errors print the usage text. Per-file failures were already
// reported as warnings, so only the summary line is printed.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "Error: %s\n\n", ue.msg)
		fmt.Fprint(w, rootCmd.UsageString())
		return 1
	}

	if errors.Is(err, types.ErrFilesFailed) && getQuiet() {
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printWarning prints a warning to stderr unless quiet mode is enabled.
func printWarning(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}
