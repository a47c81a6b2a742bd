package cmd

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/NerdyHomeReOpen/Details/pkg/config"
	"github.com/NerdyHomeReOpen/Details/pkg/system"
)

// Config carries what a command tree needs from its process. Tests inject
// writers and a logger; main uses DefaultConfig.
type Config struct {
	ConfigPath string
	// WorkDir is searched for a .env file. Empty means the current directory.
	WorkDir      string
	OutputWriter io.Writer
	ErrWriter    io.Writer
	// Logger, when nil, is built from the resolved settings.
	Logger *zap.SugaredLogger
}

func DefaultConfig() Config {
	return Config{
		OutputWriter: os.Stdout,
		ErrWriter:    os.Stderr,
	}
}

func (c Config) writers() (io.Writer, io.Writer) {
	out, errOut := c.OutputWriter, c.ErrWriter
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return out, errOut
}

// buildLogger returns the injected logger or a new one for the given options.
func buildLogger(injected *zap.SugaredLogger, opts system.LogOptions) (*zap.SugaredLogger, error) {
	if injected != nil {
		return injected, nil
	}
	return system.NewLogger(opts)
}

func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.DefaultConfigPath()
}
