package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigDirName = "ghinit"
	defaultConfigFile    = "config.yaml"
	defaultOutputFile    = "otc.txt"
	ghConfigFile         = "config.yml"
)

func DefaultConfigPath() string {
	if env := os.Getenv("GHINIT_CONFIG"); env != "" {
		return env
	}
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, defaultConfigDirName, defaultConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ghinit", defaultConfigFile)
}

// DefaultCredentialPath is the gh CLI configuration file whose presence
// means a login already happened. GH_CONFIG_DIR is honoured the same way gh
// itself honours it.
func DefaultCredentialPath() string {
	if dir := os.Getenv("GH_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, ghConfigFile)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gh", ghConfigFile)
}

func DefaultOutputPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, defaultOutputFile)
}
