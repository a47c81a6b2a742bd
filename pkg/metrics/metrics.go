package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds only the tool metrics. The default registry would add Go
// runtime and process collectors, which are noise in a textfile written by a
// short-lived command.
var Registry = prometheus.NewRegistry()

var (
	PromptsAnswered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghinit_prompts_answered_total",
		Help: "Total number of scripted answers written to the auth command",
	}, []string{"prompt"})
	CodesCaptured = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghinit_codes_captured_total",
		Help: "Total number of one-time codes written to the output file",
	})
	CodeWriteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghinit_code_write_failures_total",
		Help: "Total number of failed attempts to write the one-time code file",
	})
	ChildExitCode = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ghinit_child_exit_code",
		Help: "Exit code of the last auth command run",
	})

	SortRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sortjson_runs_total",
		Help: "Total number of sort runs by result",
	}, []string{"result"})
	SortedKeys = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sortjson_keys",
		Help: "Number of top-level keys in the last sorted file",
	})
)

func init() {
	Registry.MustRegister(PromptsAnswered)
	Registry.MustRegister(CodesCaptured)
	Registry.MustRegister(CodeWriteFailures)
	Registry.MustRegister(ChildExitCode)
	Registry.MustRegister(SortRuns)
	Registry.MustRegister(SortedKeys)
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
// An empty path disables the export.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
