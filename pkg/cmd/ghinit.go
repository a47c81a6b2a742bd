package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NerdyHomeReOpen/Details/pkg/authflow"
	"github.com/NerdyHomeReOpen/Details/pkg/config"
	"github.com/NerdyHomeReOpen/Details/pkg/metrics"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

type runtimeState struct {
	configPath string
	workDir    string
	// flags holds raw flag values; only the ones the user changed are applied.
	flags    config.Settings
	settings config.Settings
	injected *zap.SugaredLogger
	log      *zap.SugaredLogger
	writer   io.Writer
	errOut   io.Writer
}

type runtimeKey struct{}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// NewGhInitCommand builds the ghinit command tree. The root command runs
// the login automation.
func NewGhInitCommand(cfg Config) *cobra.Command {
	out, errOut := cfg.writers()
	rt := &runtimeState{
		configPath: cfg.ConfigPath,
		workDir:    cfg.WorkDir,
		injected:   cfg.Logger,
		writer:     out,
		errOut:     errOut,
	}

	root := &cobra.Command{
		Use:   "ghinit",
		Short: "Run gh auth login unattended and save the one-time device code",
		Long: `ghinit starts "gh auth login" with the web flow, answers its prompts and
writes the verification URL and one-time code to a file, so the code can be
entered from another machine. Nothing happens when gh is already logged in.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return rt.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.runLogin(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.configPath, "config", rt.configPath, "Path to config file (default $GHINIT_CONFIG or <user config dir>/ghinit/config.yaml)")
	flags.StringVar(&rt.flags.Command, "command", "", "Auth command to run (default \"gh\")")
	flags.StringArrayVar(&rt.flags.Args, "arg", nil, "Argument for the auth command, repeatable; replaces the default arguments")
	flags.StringVar(&rt.flags.CredentialPath, "credential-path", "", "Skip the login when this file exists")
	flags.StringVar(&rt.flags.OutputPath, "output-path", "", "File that receives the verification URL and one-time code")
	flags.StringVar(&rt.flags.VerificationURL, "verification-url", "", "URL written above the one-time code")
	flags.DurationVar(&rt.flags.ResponseDelay, "response-delay", 0, "Delay before each scripted answer")
	flags.StringVar(&rt.flags.LogFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	flags.StringVar(&rt.flags.MetricsTextfile, "metrics-textfile", "", "Write Prometheus metrics to this file after the run")
	flags.BoolVar(&rt.flags.Debug, "debug", false, "Enable debug logging")

	root.SetOut(out)
	root.SetErr(errOut)
	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		newGhInitConfigCommand(),
		newVersionCommand("ghinit"),
	)
	return root
}

// load resolves the effective settings: flag > environment > config file >
// defaults. A .env file is loaded into the environment first.
func (rt *runtimeState) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(rt.workDir); err != nil {
		return err
	}
	rt.configPath = resolveConfigPath(rt.configPath)

	// config init starts from the defaults so it can replace a broken file.
	settings := config.DefaultSettings()
	if !isConfigInit(cmd) {
		loaded, err := config.Load(rt.configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}
	settings, err := settings.ApplyEnv()
	if err != nil {
		return err
	}
	settings = rt.applyFlags(cmd, settings)
	if err := settings.Validate(); err != nil {
		return err
	}
	rt.settings = settings

	rt.log, err = buildLogger(rt.injected, system.LogOptions{Debug: settings.Debug, File: settings.LogFile})
	if err != nil {
		return err
	}
	rt.log.Debugw("Settings resolved", "config", rt.configPath, "command", settings.Command, "output", settings.OutputPath)
	return nil
}

func isConfigInit(cmd *cobra.Command) bool {
	return cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config"
}

func (rt *runtimeState) applyFlags(cmd *cobra.Command, s config.Settings) config.Settings {
	changed := cmd.Flags().Changed
	if changed("command") {
		s.Command = rt.flags.Command
	}
	if changed("arg") {
		s.Args = rt.flags.Args
	}
	if changed("credential-path") {
		s.CredentialPath = rt.flags.CredentialPath
	}
	if changed("output-path") {
		s.OutputPath = rt.flags.OutputPath
	}
	if changed("verification-url") {
		s.VerificationURL = rt.flags.VerificationURL
	}
	if changed("response-delay") {
		s.ResponseDelay = rt.flags.ResponseDelay
	}
	if changed("log-file") {
		s.LogFile = rt.flags.LogFile
	}
	if changed("metrics-textfile") {
		s.MetricsTextfile = rt.flags.MetricsTextfile
	}
	if changed("debug") {
		s.Debug = rt.flags.Debug
	}
	return s
}

func (rt *runtimeState) runLogin(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = rt.log.Sync() }()

	s := rt.settings
	automator := authflow.New(authflow.Options{
		Command:        s.Command,
		Args:           s.Args,
		CredentialPath: s.CredentialPath,
		Store:          authflow.CodeFile{Path: s.OutputPath, URL: s.VerificationURL},
		ResponseDelay:  s.ResponseDelay,
		Stdout:         rt.writer,
		Stderr:         rt.errOut,
		Log:            rt.log,
	})
	result, err := automator.Run(ctx)
	if result != nil && !result.Skipped {
		if merr := metrics.WriteTextfile(s.MetricsTextfile); merr != nil {
			rt.log.Warnw("Failed to export metrics", "path", s.MetricsTextfile, "error", merr)
		}
	}
	return err
}

func newVersionCommand(tool string) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show " + tool + " version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeVersion(writerFor(cmd), tool, outputFormat)
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, yaml")
	return cmd
}

// writerFor prefers the runtime writer so injected buffers see the output.
func writerFor(cmd *cobra.Command) io.Writer {
	if rt, err := getRuntime(cmd); err == nil && rt.writer != nil {
		return rt.writer
	}
	return cmd.OutOrStdout()
}
