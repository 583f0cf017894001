package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/history"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/output"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/walker"
	"github.com/spf13/viper"
)

// stdout receives rendered reports.
var stdout io.Writer = os.Stdout

// signalContext is cancelled on SIGINT or SIGTERM. The engines stop
// between files.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// currentConfig returns the loaded configuration, or defaults when the
// command ran without the PersistentPreRunE hook.
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return &config.Config{
		ListFile: config.DefaultListFile,
		Output:   config.DefaultOutput,
		History: config.HistoryConfig{
			Enabled:       true,
			Path:          config.HistoryDir(),
			RetentionDays: config.DefaultRetentionDays,
		},
	}
}

// ignoreSet is the listing file, the sensitive files and the configured
// extra entries, for a walk of root.
func ignoreSet(root string, cfg *config.Config) *walker.IgnoreSet {
	return walker.DefaultIgnoreSet(walker.ListEntry(root, cfg.ListFile), cfg.Ignore...)
}

// newEngine builds a reconcile engine for the current directory whose log
// lines are tagged with opRun.
func newEngine(opRun logging.Run) (*reconcile.Engine, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := currentConfig()
	eng := reconcile.New(reconcile.Options{
		Root:     root,
		ListFile: cfg.ListFile,
		Ignore:   ignoreSet(root, cfg),
		Workers:  cfg.Walk.Workers,
		Logger:   logging.Get("reconcile").ForRun(opRun),
	})
	return eng, root, nil
}

// render writes res to stdout in the configured format.
func render(res *output.Result) error {
	name := currentConfig().Output
	if name == "" {
		name = config.DefaultOutput
	}

	formatter, err := output.Get(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, res); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// warnFailures prints one warning per file that could not be processed.
func warnFailures(errs []types.FileError) {
	for i := range errs {
		printWarning("%v", &errs[i])
	}
}

// filesFailed returns an error wrapping types.ErrFilesFailed when any file
// could not be processed.
func filesFailed(errs []types.FileError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d", types.ErrFilesFailed, len(errs))
}

// finishRun logs the end of opRun and appends it to the history log under
// its ID. res is nil when the operation aborted with runErr.
func finishRun(opRun logging.Run, root, listPath string, res *output.Result, runErr error) {
	logging.Get("run").ForRun(opRun).Finish(runErr)
	recordHistory(opRun, root, listPath, res, runErr)
}

// recordHistory appends opRun to the history log. Failures to record are
// logged only.
func recordHistory(opRun logging.Run, root, listPath string, res *output.Result, runErr error) {
	cfg := currentConfig()
	if viper.GetBool("no_history") || !cfg.History.Enabled {
		return
	}

	h, err := history.New(cfg.History.Path)
	if err != nil {
		logging.Get("history").ForRun(opRun).Warn("history disabled", "error", err)
		return
	}

	entry := history.Entry{
		ID:        opRun.ID,
		Operation: opRun.Operation,
		Root:      root,
		ListPath:  listPath,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if res != nil {
		entry.Summary = summaryFromStats(res.Stats)
		for _, f := range res.Findings {
			entry.Findings = append(entry.Findings, f.Message())
		}
		for i := range res.Errors {
			entry.Failures = append(entry.Failures, res.Errors[i].Error())
		}
	}

	recorded, err := h.Record(entry)
	if err != nil {
		logging.Get("history").ForRun(opRun).Warn("failed to record run", "error", err)
		return
	}
	printVerbose("Recorded run %s", recorded.ShortID())
}

func summaryFromStats(s output.Stats) history.Summary {
	return history.Summary{
		Files:       s.Files,
		Entries:     s.Entries,
		New:         s.New,
		Deleted:     s.Deleted,
		Modified:    s.Modified,
		Mismatched:  s.Mismatched,
		Failed:      s.Failed,
		Unchanged:   s.Unchanged,
		Hashed:      s.Hashed,
		BytesHashed: s.BytesHashed,
		Touched:     s.Touched,
		Duration:    s.Duration,
	}
}
