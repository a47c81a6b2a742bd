package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NerdyHomeReOpen/Details/pkg/jsonsort"
	"github.com/NerdyHomeReOpen/Details/pkg/metrics"
	"github.com/NerdyHomeReOpen/Details/pkg/output"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
	"github.com/NerdyHomeReOpen/Details/pkg/version"
)

const sortJSONUsage = `JSON translation file sorting tool

Usage:
  sortjson [flags] <file path>

Examples:
  sortjson ./locales/zh-TW/translation.json
  sortjson --output json ./locales/zh-TW/message.json

Features:
  - Sort the top-level keys of a JSON file alphabetically
  - Rewrite nested values with two-space indentation, keys left in place
  - Modify the file in place
  - Print the first and last keys after sorting
`

type sortOptions struct {
	outputFormat    string
	debug           bool
	logFile         string
	metricsTextfile string
}

// NewSortJSONCommand builds the sortjson command. Without an argument it
// prints usage and succeeds.
func NewSortJSONCommand(cfg Config) *cobra.Command {
	out, errOut := cfg.writers()
	opts := &sortOptions{}

	cmd := &cobra.Command{
		Use:          "sortjson <file>",
		Short:        "Sort the top-level keys of a JSON translation file in place",
		Args:         cobra.MaximumNArgs(1),
		Version:      version.GetBuildInfo().Line("sortjson"),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := fmt.Fprint(out, sortJSONUsage)
				return err
			}
			format, err := output.ParseFormat(opts.outputFormat, output.FormatText)
			if err != nil {
				return err
			}
			log, err := buildLogger(cfg.Logger, system.LogOptions{Debug: opts.debug, File: opts.logFile})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			err = runSort(out, jsonsort.NewSorter(log), args[0], format)
			if merr := metrics.WriteTextfile(opts.metricsTextfile); merr != nil {
				log.Warnw("Failed to export metrics", "path", opts.metricsTextfile, "error", merr)
			}
			return err
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.Flags().StringVarP(&opts.outputFormat, "output", "o", "", "Summary format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	cmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	return cmd
}

func runSort(out io.Writer, sorter *jsonsort.Sorter, arg string, format output.Format) error {
	path, err := filepath.Abs(arg)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	text := format == output.FormatText || format == output.FormatTable
	if text {
		_, _ = fmt.Fprintf(out, "Target file: %s\n", path)
		_, _ = fmt.Fprintf(out, "Start sorting %s...\n", filepath.Base(path))
	}

	summary, err := sorter.SortFile(path)
	if err != nil {
		if text {
			_, _ = fmt.Fprint(out, "\nSorting failed!\n")
		}
		return err
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.WriteObject(out, format, summary)
	case output.FormatTable:
		if err := output.WriteTable(out, []string{"#", "key", "value"}, summary.Rows()); err != nil {
			return err
		}
	default:
		if err := summary.WriteText(out); err != nil {
			return err
		}
	}
	_, err = fmt.Fprint(out, "\nSorting completed!\n")
	return err
}
