package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/digest"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/inventory"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/walker"
)

// Engine runs reconciliation operations against one root.
// Files are processed one at a time.
type Engine struct {
	opts Options
	log  *logging.Logger
}

// New creates an Engine. Options are validated and defaults are applied.
func New(opts Options) *Engine {
	_ = opts.Validate()
	return &Engine{opts: opts, log: opts.Logger}
}

// ListPath returns the listing file the engine reads and writes.
func (e *Engine) ListPath() string {
	return e.opts.ListPath()
}

// walk lists the files of the root, sorted ordinally.
func (e *Engine) walk(ctx context.Context) ([]types.Path, error) {
	return walker.Walk(ctx, walker.Options{
		Root:    e.opts.Root,
		Ignore:  e.opts.Ignore,
		Workers: e.opts.Workers,
	})
}

// load parses the current listing.
func (e *Engine) load() (*inventory.Inventory, error) {
	inv, err := inventory.Load(e.ListPath())
	if err != nil {
		return nil, err
	}
	e.log.Debug("listing loaded", "path", e.ListPath(), "entries", inv.Len())
	return inv, nil
}

// save persists inv as the listing.
func (e *Engine) save(inv *inventory.Inventory) error {
	if inv.Len() == 0 {
		e.log.Warn("writing an empty listing", "path", e.ListPath())
	}
	if err := inventory.Save(e.ListPath(), inv); err != nil {
		return err
	}
	e.log.Info("listing written", "path", e.ListPath(), "entries", inv.Len())
	return nil
}

// stat returns the mtime of a tracked file in whole seconds. A path that is
// missing or no longer a regular file reports exists == false.
func (e *Engine) stat(p types.Path) (mtime int64, exists bool, err error) {
	info, err := os.Stat(p.OSPath(e.opts.Root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if !info.Mode().IsRegular() {
		return 0, false, nil
	}
	return info.ModTime().Unix(), true, nil
}

// record computes a fresh FileRecord for p.
func (e *Engine) record(ctx context.Context, p types.Path, mtime int64, stats *Stats) (types.FileRecord, error) {
	rec, err := digest.Record(ctx, e.opts.Provider, p.OSPath(e.opts.Root), mtime)
	if err != nil {
		return types.FileRecord{}, err
	}
	stats.Hashed++
	return rec, nil
}

// bytesRead reports the provider's byte counter when it keeps one.
func (e *Engine) bytesRead() int64 {
	if c, ok := e.opts.Provider.(interface{ BytesRead() int64 }); ok {
		return c.BytesRead()
	}
	return 0
}

// fileFailure records a per-file error unless the context was cancelled.
// It returns the context error when the operation must stop.
func (e *Engine) fileFailure(ctx context.Context, errs *[]types.FileError, fe *types.FileError) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	e.log.Warn("file could not be processed", "path", fe.Path, "op", fe.Op, "err", fe.Err)
	*errs = append(*errs, *fe)
	return nil
}

// finish fills the timing fields of stats.
func (e *Engine) finish(stats *Stats, start time.Time, bytesBefore int64) {
	stats.Duration = time.Since(start)
	stats.BytesHashed = e.bytesRead() - bytesBefore
}

// Check compares the listing with the tree without writing anything.
// New files are reported first, in walk order; then each listed entry, in
// listing order, yields at most one finding: existence is checked before
// mtime, mtime before parity, parity before digest.
func (e *Engine) Check(ctx context.Context, mode Mode) (*Report, error) {
	start := time.Now()
	bytesBefore := e.bytesRead()

	op := OpCheck
	if mode.VerifyParity || mode.VerifyDigest {
		op = OpTest
	}

	inv, err := e.load()
	if err != nil {
		return nil, err
	}

	files, err := e.walk(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Operation: op,
		Root:      e.opts.Root,
		Findings:  []Finding{},
	}
	report.Stats.Files = len(files)
	report.Stats.Entries = inv.Len()

	for _, p := range files {
		if !inv.Has(p) {
			report.Findings = append(report.Findings, Finding{Path: p, Outcome: NewFile})
			report.Stats.New++
		}
	}

	for _, p := range inv.Paths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, _ := inv.Get(p)

		f, fe := e.checkEntry(ctx, p, rec, mode, &report.Stats)
		if fe != nil {
			if stop := e.fileFailure(ctx, &report.Errors, fe); stop != nil {
				return nil, stop
			}
			f = Finding{Path: p, Outcome: Unreadable, Err: fe.Err.Error()}
		}

		switch f.Outcome {
		case Unchanged:
			report.Stats.Unchanged++
			continue
		case Deleted:
			report.Stats.Deleted++
		case Modified:
			report.Stats.Modified++
		case ParityMismatch, DigestMismatch:
			report.Stats.Mismatched++
		case Unreadable:
			report.Stats.Failed++
		}
		report.Findings = append(report.Findings, f)
	}

	e.finish(&report.Stats, start, bytesBefore)
	e.log.Info("check complete",
		"op", op,
		"files", report.Stats.Files,
		"findings", len(report.Findings),
		"duration", report.Stats.Duration,
	)
	return report, nil
}

// checkEntry evaluates one listed entry.
func (e *Engine) checkEntry(ctx context.Context, p types.Path, rec types.FileRecord, mode Mode, stats *Stats) (Finding, *types.FileError) {
	mtime, exists, err := e.stat(p)
	if err != nil {
		return Finding{}, &types.FileError{Path: p, Op: "stat", Err: err}
	}
	if !exists {
		return Finding{Path: p, Outcome: Deleted}, nil
	}
	if mtime != rec.Mtime {
		return Finding{Path: p, Outcome: Modified}, nil
	}

	if !mode.VerifyParity && !mode.VerifyDigest {
		return Finding{Path: p, Outcome: Unchanged}, nil
	}
	stats.Hashed++
	fsPath := p.OSPath(e.opts.Root)

	if mode.VerifyParity {
		got, err := e.opts.Provider.Parity(ctx, fsPath)
		if err != nil {
			return Finding{}, &types.FileError{Path: p, Op: "hash", Err: err}
		}
		if got != rec.Parity {
			return Finding{Path: p, Outcome: ParityMismatch, Expected: rec.Parity, Got: got}, nil
		}
	}

	if mode.VerifyDigest {
		got, err := e.opts.Provider.SHA256(ctx, fsPath)
		if err != nil {
			return Finding{}, &types.FileError{Path: p, Op: "hash", Err: err}
		}
		if got != rec.SHA256 {
			return Finding{Path: p, Outcome: DigestMismatch, Expected: rec.SHA256, Got: got}, nil
		}
	}

	return Finding{Path: p, Outcome: Unchanged}, nil
}

// Generate fingerprints every file of the tree and replaces the listing.
// Any previous listing is ignored. Files that cannot be read are left out
// and reported in Result.Errors.
func (e *Engine) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()
	bytesBefore := e.bytesRead()

	files, err := e.walk(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Operation: OpGenerate,
		Root:      e.opts.Root,
		ListPath:  e.ListPath(),
		Inventory: inventory.New(),
	}
	res.Stats.Files = len(files)

	for _, p := range files {
		if err := e.addFile(ctx, res, p); err != nil {
			return nil, err
		}
	}

	res.Stats.Entries = res.Inventory.Len()
	if err := e.save(res.Inventory); err != nil {
		return nil, err
	}

	e.finish(&res.Stats, start, bytesBefore)
	e.log.Info("generate complete",
		"entries", res.Stats.Entries,
		"failed", res.Stats.Failed,
		"duration", res.Stats.Duration,
	)
	return res, nil
}

// addFile fingerprints a file that is not in the inventory yet and inserts
// it. Per-file failures are collected on res.
func (e *Engine) addFile(ctx context.Context, res *Result, p types.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mtime, exists, err := e.stat(p)
	if err == nil && !exists {
		err = fmt.Errorf("%w: file vanished during walk", fs.ErrNotExist)
	}
	if err != nil {
		res.Stats.Failed++
		return e.fileFailure(ctx, &res.Errors, &types.FileError{Path: p, Op: "stat", Err: err})
	}

	rec, err := e.record(ctx, p, mtime, &res.Stats)
	if err != nil {
		res.Stats.Failed++
		return e.fileFailure(ctx, &res.Errors, &types.FileError{Path: p, Op: "hash", Err: err})
	}

	res.Inventory.Put(p, rec)
	res.Stats.New++
	return nil
}

// Update brings the listing in line with the tree. New files are added,
// files whose mtime changed are fingerprinted again, and entries for
// deleted files are removed. Entries with an unchanged mtime are kept as
// they are without reading the file.
func (e *Engine) Update(ctx context.Context) (*Result, error) {
	start := time.Now()
	bytesBefore := e.bytesRead()

	inv, err := e.load()
	if err != nil {
		return nil, err
	}

	files, err := e.walk(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Operation: OpUpdate,
		Root:      e.opts.Root,
		ListPath:  e.ListPath(),
		Inventory: inv,
	}
	res.Stats.Files = len(files)

	listed := inv.Paths()

	for _, p := range files {
		if inv.Has(p) {
			continue
		}
		if err := e.addFile(ctx, res, p); err != nil {
			return nil, err
		}
	}

	var removed []types.Path
	for _, p := range listed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, _ := inv.Get(p)

		mtime, exists, err := e.stat(p)
		switch {
		case err != nil:
			res.Stats.Failed++
			if stop := e.fileFailure(ctx, &res.Errors, &types.FileError{Path: p, Op: "stat", Err: err}); stop != nil {
				return nil, stop
			}
		case !exists:
			removed = append(removed, p)
		case mtime != rec.Mtime:
			fresh, err := e.record(ctx, p, mtime, &res.Stats)
			if err != nil {
				res.Stats.Failed++
				if stop := e.fileFailure(ctx, &res.Errors, &types.FileError{Path: p, Op: "hash", Err: err}); stop != nil {
					return nil, stop
				}
				continue
			}
			inv.Put(p, fresh)
			res.Stats.Modified++
		default:
			res.Stats.Unchanged++
		}
	}

	for _, p := range removed {
		inv.Delete(p)
		res.Stats.Deleted++
	}

	res.Stats.Entries = inv.Len()
	if err := e.save(inv); err != nil {
		return nil, err
	}

	e.finish(&res.Stats, start, bytesBefore)
	e.log.Info("update complete",
		"new", res.Stats.New,
		"modified", res.Stats.Modified,
		"deleted", res.Stats.Deleted,
		"unchanged", res.Stats.Unchanged,
		"duration", res.Stats.Duration,
	)
	return res, nil
}
