package output

import (
	"bytes"
)

// PlainFormatter writes one diagnostic line per finding and nothing else,
// so check output can be piped and compared verbatim. Operations without
// findings produce no output.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, finding := range r.Findings {
		w.WriteString(finding.Message())
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
