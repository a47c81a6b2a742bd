package authflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CodeStore persists a captured one-time code.
type CodeStore interface {
	Save(code string) error
	// Location describes where Save writes, for user facing messages.
	Location() string
}

// CodeFile writes the verification URL and the code as two lines to Path,
// replacing any previous content.
type CodeFile struct {
	Path string
	URL  string
}

func (f CodeFile) Content(code string) string {
	return f.URL + "\n" + code
}

func (f CodeFile) Save(code string) error {
	if f.Path == "" {
		return errors.New("code file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(f.Path, []byte(f.Content(code)), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Path, err)
	}
	return nil
}

func (f CodeFile) Location() string {
	return f.Path
}
