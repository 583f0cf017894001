package main

import (
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/output"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report new, deleted and modified files",
	Long: `Compare the listing with the tree using existence and modification time.

Every file not in the listing is reported as new, then every listed entry is
checked in listing order. Nothing is written.`,
	Args: noArgs,
	RunE: runCheck,
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Verify parity and digest of every listed file",
	Long: `Like check, but files with a matching modification time are read and
their MD5+SHA-1 parity and SHA-256 digest are compared with the listing.`,
	Args: noArgs,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(testCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	return runVerify(reconcile.OpCheck, reconcile.ModeCheck)
}

func runTest(_ *cobra.Command, _ []string) error {
	return runVerify(reconcile.OpTest, reconcile.ModeTest)
}

// runVerify runs Check and prints its findings. Findings do not affect
// the exit status; unreadable files do.
func runVerify(operation string, mode reconcile.Mode) error {
	ctx, stop := signalContext()
	defer stop()

	opRun := logging.NewRun(operation)
	eng, root, err := newEngine(opRun)
	if err != nil {
		return err
	}

	printVerbose("Checking %s against %s", root, eng.ListPath())

	rep, err := eng.Check(ctx, mode)
	if err != nil {
		finishRun(opRun, root, eng.ListPath(), nil, err)
		return err
	}

	res := output.FromReport(rep)
	res.ListPath = eng.ListPath()
	if err := render(res); err != nil {
		return err
	}

	finishRun(opRun, root, res.ListPath, res, nil)
	return filesFailed(res.Errors)
}
