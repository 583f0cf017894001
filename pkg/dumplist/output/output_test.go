package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/touch"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func checkResult() *Result {
	return FromReport(&reconcile.Report{
		Operation: reconcile.OpTest,
		Root:      "/srv/www",
		Findings: []reconcile.Finding{
			{Path: "./new.txt", Outcome: reconcile.NewFile},
			{Path: "./gone.txt", Outcome: reconcile.Deleted},
			{Path: "./x.bin", Outcome: reconcile.DigestMismatch, Expected: "D1", Got: "D2"},
		},
		Stats: reconcile.Stats{
			Files:       10,
			New:         1,
			Deleted:     1,
			Mismatched:  1,
			Hashed:      8,
			BytesHashed: 4096,
			Duration:    1500 * time.Millisecond,
		},
		Errors: []types.FileError{
			{Path: "./locked", Op: "hash", Err: errors.New("permission denied")},
		},
	})
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain", "pretty", "yaml"}, Available())

	for _, name := range Available() {
		f, err := Get(name)
		require.NoError(t, err)
		assert.NotNil(t, f)
	}

	_, err := Get("xml")
	assert.Error(t, err)

	r := NewRegistry()
	r.Register("plain", func() Formatter { return &PlainFormatter{} })
	assert.Equal(t, []string{"plain"}, r.Available())
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, checkResult()))

	assert.Equal(t,
		"./new.txt is a new file.\n"+
			"./gone.txt does not exist.\n"+
			"./x.bin digest mismatch (expected D1, got D2).\n",
		buf.String())
}

func TestPlainFormatterNoFindings(t *testing.T) {
	var buf bytes.Buffer
	res := FromResult(&reconcile.Result{Operation: reconcile.OpGenerate, Root: "."})
	require.NoError(t, (&PlainFormatter{}).Format(&buf, res))
	assert.Empty(t, buf.String())
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, checkResult()))

	out := buf.String()
	assert.Contains(t, out, "test")
	assert.Contains(t, out, "/srv/www")
	assert.Contains(t, out, "./gone.txt does not exist.")
	assert.Contains(t, out, "4.0 KiB")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "permission denied")
}

func TestPrettyFormatterCleanCheck(t *testing.T) {
	var buf bytes.Buffer
	res := FromReport(&reconcile.Report{Operation: reconcile.OpCheck, Root: "."})
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, res))
	assert.Contains(t, buf.String(), "No differences found")
}

func TestPrettyFormatterTouch(t *testing.T) {
	var buf bytes.Buffer
	res := FromTouch(".", &touch.Stats{Entries: 1200, Touched: 7})
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, res))
	assert.Contains(t, buf.String(), "touchdir")
	assert.Contains(t, buf.String(), "1,200")
	assert.NotContains(t, buf.String(), "No differences found")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, checkResult()))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "test", doc["operation"])
	findings := doc["findings"].([]interface{})
	require.Len(t, findings, 3)
	first := findings[0].(map[string]interface{})
	assert.Equal(t, "./new.txt", first["path"])
	assert.Equal(t, "new", first["outcome"])
	assert.Equal(t, "./new.txt is a new file.", first["message"])

	stats := doc["stats"].(map[string]interface{})
	assert.Equal(t, float64(10), stats["files"])
	assert.Equal(t, "1.5s", stats["duration"])

	errs := doc["errors"].([]interface{})
	assert.Equal(t, "permission denied", errs[0].(map[string]interface{})["error"])
}

func TestJSONFormatterEmptyFindings(t *testing.T) {
	var buf bytes.Buffer
	res := FromReport(&reconcile.Report{Operation: reconcile.OpCheck, Root: "."})
	require.NoError(t, (&JSONFormatter{}).Format(&buf, res))
	assert.Contains(t, buf.String(), `"findings": []`)
	assert.NotContains(t, buf.String(), `"errors"`)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLFormatter{}).Format(&buf, checkResult()))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "test", doc.Operation)
	require.Len(t, doc.Findings, 3)
	assert.Equal(t, "digest_mismatch", doc.Findings[2].Outcome)
	assert.Equal(t, "D1", doc.Findings[2].Expected)
	assert.Equal(t, int64(4096), doc.Stats.BytesHashed)
	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "./locked", doc.Errors[0].Path)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{2500 * time.Millisecond, "2.5s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
