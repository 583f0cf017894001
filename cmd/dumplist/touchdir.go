package main

import (
	"fmt"
	"os"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/output"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/touch"
	"github.com/spf13/cobra"
)

const opTouchdir = "touchdir"

var touchdirCmd = &cobra.Command{
	Use:   "touchdir",
	Short: "Set directory mtimes from their newest files",
	Long: `Walk the tree deepest first and set each directory's modification time to
that of the newest file it contains. Hidden entries and desktop.ini are
ignored. The listing file is not read or written.`,
	Args: noArgs,
	RunE: runTouchdir,
}

func init() {
	rootCmd.AddCommand(touchdirCmd)
}

func runTouchdir(_ *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg := currentConfig()
	opRun := logging.NewRun(opTouchdir)

	stats, err := touch.TouchDirectories(ctx, touch.Options{
		Root:    root,
		Ignore:  ignoreSet(root, cfg),
		Workers: cfg.Walk.Workers,
		Logger:  logging.Get("touch").ForRun(opRun),
	})
	if err != nil {
		finishRun(opRun, root, "", nil, err)
		return err
	}

	res := output.FromTouch(root, stats)
	if err := render(res); err != nil {
		return err
	}

	finishRun(opRun, root, "", res, nil)
	return nil
}
