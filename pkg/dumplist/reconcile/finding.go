package reconcile

import (
	"fmt"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
)

// Mode selects the content checks Check performs on entries whose mtime
// still matches.
type Mode struct {
	VerifyParity bool
	VerifyDigest bool
}

var (
	// ModeCheck verifies existence and modification time only.
	ModeCheck = Mode{}

	// ModeTest additionally verifies parity and digest.
	ModeTest = Mode{VerifyParity: true, VerifyDigest: true}
)

// Outcome classifies one inventory path after a check.
type Outcome int

// Outcomes in evaluation priority order.
const (
	Unchanged Outcome = iota
	NewFile
	Deleted
	Modified
	ParityMismatch
	DigestMismatch
	Unreadable
)

var outcomeNames = map[Outcome]string{
	Unchanged:      "unchanged",
	NewFile:        "new",
	Deleted:        "deleted",
	Modified:       "modified",
	ParityMismatch: "parity_mismatch",
	DigestMismatch: "digest_mismatch",
	Unreadable:     "unreadable",
}

// String returns the outcome name.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Finding is a single diagnostic produced by Check.
type Finding struct {
	Path     types.Path `json:"path" yaml:"path"`
	Outcome  Outcome    `json:"outcome" yaml:"outcome"`
	Expected string     `json:"expected,omitempty" yaml:"expected,omitempty"`
	Got      string     `json:"got,omitempty" yaml:"got,omitempty"`
	Err      string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Message renders the finding as a diagnostic line.
func (f Finding) Message() string {
	switch f.Outcome {
	case NewFile:
		return fmt.Sprintf("%s is a new file.", f.Path)
	case Deleted:
		return fmt.Sprintf("%s does not exist.", f.Path)
	case Modified:
		return fmt.Sprintf("%s has been modified.", f.Path)
	case ParityMismatch:
		return fmt.Sprintf("%s parity mismatch (expected %s, got %s).", f.Path, f.Expected, f.Got)
	case DigestMismatch:
		return fmt.Sprintf("%s digest mismatch (expected %s, got %s).", f.Path, f.Expected, f.Got)
	case Unreadable:
		return fmt.Sprintf("%s could not be read: %s.", f.Path, f.Err)
	default:
		return fmt.Sprintf("%s is unchanged.", f.Path)
	}
}
