package logging

import (
	"time"

	"github.com/google/uuid"
)

// Run identifies one invocation of an operation. Its ID is shared by every
// log line the run emits and by the history entry recorded for it, so a
// history entry can be matched with its log lines.
type Run struct {
	// ID is a random UUID.
	ID string

	// Operation is the operation name: check, test, generate, update or
	// touchdir.
	Operation string

	// Start is when the run was created.
	Start time.Time
}

// NewRun starts a run of operation with a fresh ID.
func NewRun(operation string) Run {
	return Run{
		ID:        uuid.NewString(),
		Operation: operation,
		Start:     time.Now(),
	}
}

// ShortID returns the first eight characters of the ID, the form the
// history command prints.
func (r Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// Elapsed returns the time since the run started.
func (r Run) Elapsed() time.Duration {
	return time.Since(r.Start)
}

// fields returns the key/value pairs added to every line of the run.
func (r Run) fields() []any {
	return []any{"run", r.ShortID(), "op", r.Operation}
}
