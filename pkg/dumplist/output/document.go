package output

import "github.com/NewEraCracker/dumplist/pkg/dumplist/types"

// document is the shape shared by the json and yaml formatters.
type document struct {
	Operation string       `json:"operation" yaml:"operation"`
	Root      string       `json:"root" yaml:"root"`
	ListPath  string       `json:"list_path,omitempty" yaml:"list_path,omitempty"`
	Findings  []docFinding `json:"findings" yaml:"findings"`
	Stats     docStats     `json:"stats" yaml:"stats"`
	Errors    []docError   `json:"errors,omitempty" yaml:"errors,omitempty"`
}

type docFinding struct {
	Path     string `json:"path" yaml:"path"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	Message  string `json:"message" yaml:"message"`
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Got      string `json:"got,omitempty" yaml:"got,omitempty"`
}

type docStats struct {
	Files       int    `json:"files" yaml:"files"`
	Entries     int    `json:"entries" yaml:"entries"`
	New         int    `json:"new" yaml:"new"`
	Deleted     int    `json:"deleted" yaml:"deleted"`
	Modified    int    `json:"modified" yaml:"modified"`
	Mismatched  int    `json:"mismatched" yaml:"mismatched"`
	Failed      int    `json:"failed" yaml:"failed"`
	Unchanged   int    `json:"unchanged" yaml:"unchanged"`
	Hashed      int    `json:"hashed" yaml:"hashed"`
	BytesHashed int64  `json:"bytes_hashed" yaml:"bytes_hashed"`
	Touched     int    `json:"touched,omitempty" yaml:"touched,omitempty"`
	Skipped     int    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Duration    string `json:"duration" yaml:"duration"`
}

type docError struct {
	Path  string `json:"path" yaml:"path"`
	Op    string `json:"op" yaml:"op"`
	Error string `json:"error" yaml:"error"`
}

// buildDocument converts a Result for structured encoders. The findings
// array is always present, even when empty.
func buildDocument(r *Result) document {
	s := r.Stats
	doc := document{
		Operation: r.Operation,
		Root:      r.Root,
		ListPath:  r.ListPath,
		Findings:  make([]docFinding, 0, len(r.Findings)),
		Stats: docStats{
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
			Skipped:     s.Skipped,
			Duration:    formatDurationString(s.Duration),
		},
	}

	for _, f := range r.Findings {
		doc.Findings = append(doc.Findings, docFinding{
			Path:     f.Path.String(),
			Outcome:  f.Outcome.String(),
			Message:  f.Message(),
			Expected: f.Expected,
			Got:      f.Got,
		})
	}

	for _, e := range r.Errors {
		doc.Errors = append(doc.Errors, errorEntry(e))
	}

	return doc
}

func errorEntry(e types.FileError) docError {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return docError{Path: e.Path.String(), Op: e.Op, Error: msg}
}
