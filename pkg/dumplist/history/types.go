// Package history keeps a log of dumplist runs, one JSON file per run.
package history

import "time"

// MaxFindings caps the diagnostic lines stored with an entry.
const MaxFindings = 500

// Summary holds the counters of a run.
type Summary struct {
	Files       int   `json:"files"`
	Entries     int   `json:"entries"`
	New         int   `json:"new"`
	Deleted     int   `json:"deleted"`
	Modified    int   `json:"modified"`
	Mismatched  int   `json:"mismatched"`
	Failed      int   `json:"failed"`
	Unchanged   int   `json:"unchanged"`
	Hashed      int   `json:"hashed"`
	BytesHashed int64 `json:"bytes_hashed"`
	Touched     int   `json:"touched,omitempty"`

	Duration time.Duration `json:"duration"`
}

// Entry is one logged run.
type Entry struct {
	// ID is the UUID of the run, shared with its log lines.
	ID string `json:"id"`

	Timestamp time.Time `json:"timestamp"`

	// Operation is check, test, generate, update or touchdir.
	Operation string `json:"operation"`

	// Root is the absolute directory the run operated on.
	Root string `json:"root"`

	// ListPath is the listing file, empty for touchdir.
	ListPath string `json:"list_path,omitempty"`

	Summary Summary `json:"summary"`

	// Findings holds up to MaxFindings diagnostic lines.
	Findings []string `json:"findings,omitempty"`

	// Truncated is set when findings were dropped.
	Truncated bool `json:"truncated,omitempty"`

	// Failures holds per-file error messages.
	Failures []string `json:"failures,omitempty"`

	// Error is set when the run aborted.
	Error string `json:"error,omitempty"`
}

// ShortID returns the first eight characters of the ID.
func (e *Entry) ShortID() string {
	if len(e.ID) <= 8 {
		return e.ID
	}
	return e.ID[:8]
}
