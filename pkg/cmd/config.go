package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NerdyHomeReOpen/Details/pkg/config"
	"github.com/NerdyHomeReOpen/Details/pkg/output"
)

func newGhInitConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write ghinit configuration",
	}
	cmd.AddCommand(
		newConfigViewCommand(),
		newConfigInitCommand(),
	)
	return cmd
}

func newConfigViewCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the effective settings after file, environment and flags are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			f, err := output.ParseFormat(outputFormat, output.FormatTable)
			if err != nil {
				return err
			}
			switch f {
			case output.FormatJSON, output.FormatYAML:
				return output.WriteObject(rt.writer, f, rt.settings)
			default:
				return output.WriteTable(rt.writer, []string{"setting", "value"}, settingsRows(rt.configPath, rt.settings))
			}
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, yaml")
	return cmd
}

func settingsRows(path string, s config.Settings) [][]string {
	return [][]string{
		{"config", path},
		{"command", s.Command},
		{"args", strings.Join(s.Args, " ")},
		{"credential-path", s.CredentialPath},
		{"output-path", s.OutputPath},
		{"verification-url", s.VerificationURL},
		{"response-delay", s.ResponseDelay.String()},
		{"log-file", s.LogFile},
		{"metrics-textfile", s.MetricsTextfile},
		{"debug", fmt.Sprint(s.Debug)},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(rt.configPath); err == nil {
					return fmt.Errorf("config already exists: %s", rt.configPath)
				}
			}
			if err := config.Save(rt.configPath, rt.settings); err != nil {
				return err
			}
			rt.log.Infow("Config written", "path", rt.configPath)
			_, _ = fmt.Fprintf(rt.writer, "Config written to %s\n", rt.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
