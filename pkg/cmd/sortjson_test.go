package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerdyHomeReOpen/Details/pkg/jsonsort"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

func executeSortJSON(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewSortJSONCommand(Config{
		OutputWriter: out,
		ErrWriter:    errOut,
		Logger:       system.NewTestLogger(),
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSortJSONWithoutArgumentsPrintsUsage(t *testing.T) {
	out, _, err := executeSortJSON(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "sortjson ./locales/zh-TW/translation.json")
}

func TestSortJSONSortsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translation.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":"2","a":"1"}`), 0o644))

	out, _, err := executeSortJSON(t, path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}", string(content))

	assert.Contains(t, out, "Target file: "+path)
	assert.Contains(t, out, "Start sorting translation.json...")
	assert.Contains(t, out, "File contains 2 translation keys")
	assert.Contains(t, out, "translation.json has been sorted in alphabetical order!")
	assert.Contains(t, out, "   1. a: \"1\"")
	assert.Contains(t, out, "\nSorting completed!\n")
}

func TestSortJSONResolvesRelativePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "message.json"), []byte(`{"z":1,"y":2}`), 0o644))
	t.Chdir(dir)

	out, _, err := executeSortJSON(t, "--output", "json", "message.json")
	require.NoError(t, err)

	var summary jsonsort.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.True(t, filepath.IsAbs(summary.Path))
	assert.Equal(t, "message.json", summary.File)
	assert.Equal(t, 2, summary.KeyCount)
	assert.Equal(t, "y", summary.First[0].Key)

	content, err := os.ReadFile(filepath.Join(dir, "message.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"y\": 2,\n  \"z\": 1\n}", string(content))
}

func TestSortJSONFailures(t *testing.T) {
	dir := t.TempDir()
	notJSON := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notJSON, []byte(`{"b":1,"a":2}`), 0o644))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"b":1,`), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.json"), wantErr: jsonsort.ErrFileNotFound},
		{name: "not a json file", path: notJSON, wantErr: jsonsort.ErrNotJSONFile},
		{name: "malformed json", path: broken, wantErr: jsonsort.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := executeSortJSON(t, tt.path)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, out, "\nSorting failed!\n")
			assert.Contains(t, errOut, "Error: ")
		})
	}

	_, statErr := os.Stat(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(statErr))
	content, err := os.ReadFile(broken)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,`, string(content))
}

func TestSortJSONYAMLAndTableOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":"bee","a":"ay"}`), 0o644))

	out, _, err := executeSortJSON(t, "-o", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "keyCount: 2")
	assert.NotContains(t, out, "Sorting completed!")

	out, _, err = executeSortJSON(t, "-o", "table", path)
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "bee")
	assert.Contains(t, out, "Sorting completed!")
}

func TestSortJSONRejectsUnknownFormat(t *testing.T) {
	_, _, err := executeSortJSON(t, "-o", "xml", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSortJSONVersionFlag(t *testing.T) {
	out, _, err := executeSortJSON(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sortjson ")
	assert.Contains(t, out, "commit:")
}

func TestSortJSONWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":1,"a":2,"c":3}`), 0o644))
	metricsFile := filepath.Join(dir, "sortjson.prom")

	_, _, err := executeSortJSON(t, "--metrics-textfile", metricsFile, path)
	require.NoError(t, err)

	exported, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "sortjson_keys 3")
	assert.Contains(t, string(exported), `sortjson_runs_total{result="success"}`)
}
