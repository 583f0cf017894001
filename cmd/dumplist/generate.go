package main

import (
	"context"
	"path/filepath"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/output"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rebuild the listing from scratch",
	Long: `Fingerprint every file below the current directory and replace the
listing. Any existing listing is ignored, even a malformed one.`,
	Args: noArgs,
	RunE: runGenerate,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Bring the listing up to date",
	Long: `Fingerprint files missing from the listing, re-fingerprint files whose
modification time changed and drop entries whose file is gone. Files with
an unchanged modification time are not read.`,
	Args: noArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	return runRebuild(reconcile.OpGenerate, (*reconcile.Engine).Generate)
}

func runUpdate(_ *cobra.Command, _ []string) error {
	return runRebuild(reconcile.OpUpdate, (*reconcile.Engine).Update)
}

// runRebuild runs an operation that writes the listing. Files that could
// not be read are warned about and make the run fail once the listing
// has been written.
func runRebuild(operation string, op func(*reconcile.Engine, context.Context) (*reconcile.Result, error)) error {
	ctx, stop := signalContext()
	defer stop()

	opRun := logging.NewRun(operation)
	eng, root, err := newEngine(opRun)
	if err != nil {
		return err
	}

	printVerbose("Running %s in %s", operation, root)

	result, err := op(eng, ctx)
	if err != nil {
		finishRun(opRun, root, eng.ListPath(), nil, err)
		return err
	}

	warnFailures(result.Errors)

	res := output.FromResult(result)
	if err := render(res); err != nil {
		return err
	}

	printVerbose("Wrote %s entries to %s (%s hashed)",
		types.FormatCount(int64(res.Stats.Entries)),
		filepath.Base(res.ListPath),
		types.FormatSize(res.Stats.BytesHashed))

	finishRun(opRun, root, res.ListPath, res, nil)
	return filesFailed(res.Errors)
}
