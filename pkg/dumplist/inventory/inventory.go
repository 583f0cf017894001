// Package inventory holds the in-memory listing of tracked files and its
// on-disk text form.
//
// The listing file has two sections. The metadata section carries one line
// per file with its modification time and parity token; the content section
// carries the SHA-256 digest of the same files in the same order:
//
//	; 1700000000 <48-char parity> *a.txt
//	<64-char sha256> *a.txt
//
// Basic usage:
//
//	inv, err := inventory.Load("SHA256SUMS")
//	if err != nil {
//	    return err
//	}
//	inv.Put("./new.txt", rec)
//	if err := inventory.Save("SHA256SUMS", inv); err != nil {
//	    return err
//	}
package inventory

import (
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
)

// Inventory maps paths to their records. Keys are unique; the insertion
// order is remembered so entries can be visited in the order they were
// parsed, while serialization always sorts.
type Inventory struct {
	records map[types.Path]types.FileRecord
	order   []types.Path
	dirty   bool
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{
		records: make(map[types.Path]types.FileRecord),
	}
}

// Len returns the number of entries.
func (inv *Inventory) Len() int {
	return len(inv.records)
}

// Get returns the record for p.
func (inv *Inventory) Get(p types.Path) (types.FileRecord, bool) {
	rec, ok := inv.records[p]
	return rec, ok
}

// Has reports whether p is tracked.
func (inv *Inventory) Has(p types.Path) bool {
	_, ok := inv.records[p]
	return ok
}

// Put inserts or replaces the record for p. A replaced entry keeps its
// position in the insertion order.
func (inv *Inventory) Put(p types.Path, rec types.FileRecord) {
	if _, ok := inv.records[p]; !ok {
		inv.compact()
		inv.order = append(inv.order, p)
	}
	inv.records[p] = rec
}

// Delete removes p. Deleting an unknown path is a no-op.
func (inv *Inventory) Delete(p types.Path) {
	if _, ok := inv.records[p]; !ok {
		return
	}
	delete(inv.records, p)
	inv.dirty = true
}

// Paths returns the tracked paths in insertion order.
func (inv *Inventory) Paths() []types.Path {
	inv.compact()
	out := make([]types.Path, len(inv.order))
	copy(out, inv.order)
	return out
}

// SortedPaths returns the tracked paths sorted ordinally ascending.
func (inv *Inventory) SortedPaths() []types.Path {
	out := inv.Paths()
	sortPaths(out)
	return out
}

// Equal reports whether both inventories hold the same records,
// regardless of order.
func (inv *Inventory) Equal(other *Inventory) bool {
	if inv.Len() != other.Len() {
		return false
	}
	for p, rec := range inv.records {
		if o, ok := other.records[p]; !ok || o != rec {
			return false
		}
	}
	return true
}

// compact drops deleted paths from the order slice.
func (inv *Inventory) compact() {
	if !inv.dirty {
		return
	}
	kept := inv.order[:0]
	for _, p := range inv.order {
		if _, ok := inv.records[p]; ok {
			kept = append(kept, p)
		}
	}
	inv.order = kept
	inv.dirty = false
}
