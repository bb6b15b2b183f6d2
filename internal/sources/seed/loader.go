// Package seed imports an initial client roster from a YAML file.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads a roster file.
type Loader struct {
	filePath string
}

// NewLoader creates a new roster loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the roster file
func (l *Loader) Load() (Roster, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return Roster{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return roster, nil
}
