package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultCommand         = "gh"
	DefaultVerificationURL = "https://github.com/login/device"
	DefaultResponseDelay   = 100 * time.Millisecond
)

// DefaultArgs are the arguments passed to the auth command: HTTPS as git
// protocol, github.com as host and the browser based device flow.
var DefaultArgs = []string{"auth", "login", "--git-protocol", "https", "--hostname", "GitHub.com", "--web"}

// Settings is the effective configuration of ghinit. Zero values mean
// "use the default" when a file is loaded.
type Settings struct {
	Command         string        `yaml:"command,omitempty" json:"command"`
	Args            []string      `yaml:"args,omitempty" json:"args"`
	CredentialPath  string        `yaml:"credential-path,omitempty" json:"credentialPath"`
	OutputPath      string        `yaml:"output-path,omitempty" json:"outputPath"`
	VerificationURL string        `yaml:"verification-url,omitempty" json:"verificationURL"`
	ResponseDelay   time.Duration `yaml:"response-delay,omitempty" json:"responseDelay"`
	LogFile         string        `yaml:"log-file,omitempty" json:"logFile,omitempty"`
	MetricsTextfile string        `yaml:"metrics-textfile,omitempty" json:"metricsTextfile,omitempty"`
	Debug           bool          `yaml:"debug,omitempty" json:"debug"`
}

func DefaultSettings() Settings {
	return Settings{
		Command:         DefaultCommand,
		Args:            append([]string(nil), DefaultArgs...),
		CredentialPath:  DefaultCredentialPath(),
		OutputPath:      DefaultOutputPath(),
		VerificationURL: DefaultVerificationURL,
		ResponseDelay:   DefaultResponseDelay,
	}
}

// WithDefaults fills every unset field from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.Command == "" {
		s.Command = def.Command
	}
	if len(s.Args) == 0 {
		s.Args = def.Args
	}
	if s.CredentialPath == "" {
		s.CredentialPath = def.CredentialPath
	}
	if s.OutputPath == "" {
		s.OutputPath = def.OutputPath
	}
	if s.VerificationURL == "" {
		s.VerificationURL = def.VerificationURL
	}
	if s.ResponseDelay == 0 {
		s.ResponseDelay = def.ResponseDelay
	}
	return s
}

// Load reads settings from path. A missing file is not an error and yields
// the defaults.
func Load(path string) (Settings, error) {
	if path == "" {
		return Settings{}, errors.New("config path is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(content, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return s.WithDefaults(), nil
}

func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, content, 0o600)
}

// ApplyEnv overrides settings with GHINIT_* environment variables.
func (s Settings) ApplyEnv() (Settings, error) {
	s.Command = getEnvString("GHINIT_COMMAND", s.Command)
	if args, ok := os.LookupEnv("GHINIT_ARGS"); ok && strings.TrimSpace(args) != "" {
		s.Args = strings.Fields(args)
	}
	s.CredentialPath = getEnvString("GHINIT_CREDENTIAL_PATH", s.CredentialPath)
	s.OutputPath = getEnvString("GHINIT_OUTPUT_PATH", s.OutputPath)
	s.VerificationURL = getEnvString("GHINIT_VERIFICATION_URL", s.VerificationURL)
	s.LogFile = getEnvString("GHINIT_LOG_FILE", s.LogFile)
	s.MetricsTextfile = getEnvString("GHINIT_METRICS_TEXTFILE", s.MetricsTextfile)
	s.Debug = getEnvBool("GHINIT_DEBUG", s.Debug)
	delay, err := getEnvDuration("GHINIT_RESPONSE_DELAY", s.ResponseDelay)
	if err != nil {
		return s, err
	}
	s.ResponseDelay = delay
	return s, nil
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.Command) == "" {
		return errors.New("command is required")
	}
	if strings.TrimSpace(s.OutputPath) == "" {
		return errors.New("output path is required")
	}
	if s.ResponseDelay < 0 {
		return fmt.Errorf("response delay must not be negative, got %s", s.ResponseDelay)
	}
	return nil
}
