package jsonsort

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NerdyHomeReOpen/Details/pkg/metrics"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestSortFile(t *testing.T) {
	path := writeFile(t, "en.json", `{"b":"2","a":"1"}`, 0o640)
	successBefore := testutil.ToFloat64(metrics.SortRuns.WithLabelValues("success"))

	summary, err := NewSorter(system.NewTestLogger()).SortFile(path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": \"1\",\n  \"b\": \"2\"\n}", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	assert.Equal(t, "en.json", summary.File)
	assert.Equal(t, path, summary.Path)
	assert.Equal(t, 2, summary.KeyCount)
	assert.Equal(t, successBefore+1, testutil.ToFloat64(metrics.SortRuns.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.SortedKeys))
}

func TestSortFileTwiceIsStable(t *testing.T) {
	path := writeFile(t, "de.json", `{"z":{"b":1,"a":2},"A":"x"}`, 0o644)
	sorter := NewSorter(nil)

	_, err := sorter.SortFile(path)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = sorter.SortFile(path)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSortFileMissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	failureBefore := testutil.ToFloat64(metrics.SortRuns.WithLabelValues("failure"))

	summary, err := NewSorter(nil).SortFile(path)
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Nil(t, summary)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file may be created")
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(metrics.SortRuns.WithLabelValues("failure")))
}

func TestSortFileRejectsWithoutWriting(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "wrong extension", file: "en.txt", content: `{"b":1,"a":2}`, wantErr: ErrNotJSONFile},
		{name: "extension is case sensitive", file: "en.JSON", content: `{"b":1,"a":2}`, wantErr: ErrNotJSONFile},
		{name: "malformed json", file: "en.json", content: `{"b":1,"a":`, wantErr: ErrInvalidJSON},
		{name: "top level array", file: "en.json", content: `["b","a"]`, wantErr: ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content, 0o644)

			_, err := NewSorter(nil).SortFile(path)
			require.ErrorIs(t, err, tt.wantErr)

			content, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(content))
		})
	}
}

func TestSortFileRejectsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locales.json")
	require.NoError(t, os.Mkdir(dir, 0o755))

	_, err := NewSorter(nil).SortFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
