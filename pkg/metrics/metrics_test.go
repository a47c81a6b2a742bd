package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPromptsAnsweredLabels(t *testing.T) {
	PromptsAnswered.Reset()
	defer PromptsAnswered.Reset()

	PromptsAnswered.WithLabelValues("credentials").Inc()
	PromptsAnswered.WithLabelValues("browser").Add(2)

	require.Equal(t, float64(1), testutil.ToFloat64(PromptsAnswered.WithLabelValues("credentials")))
	require.Equal(t, float64(2), testutil.ToFloat64(PromptsAnswered.WithLabelValues("browser")))
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(CodesCaptured)
	CodesCaptured.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(CodesCaptured))

	SortRuns.WithLabelValues("success").Inc()
	if v := testutil.ToFloat64(SortRuns.WithLabelValues("success")); v < 1 {
		t.Fatalf("expected sortjson_runs_total{result=success} >= 1, got %v", v)
	}
}

func TestWriteTextfile(t *testing.T) {
	SortedKeys.Set(42)
	path := filepath.Join(t.TempDir(), "textfile", "sortjson.prom")

	require.NoError(t, WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "sortjson_keys 42")
	require.False(t, strings.Contains(string(content), "go_goroutines"), "runtime collectors must not be exported")
}

func TestWriteTextfileDisabled(t *testing.T) {
	require.NoError(t, WriteTextfile(""))
}
