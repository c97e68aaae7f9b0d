package memory

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in seed set, compiled into the binary so a bare `go run` always
// starts with a populated roster.
//
//go:embed seed.yaml
var defaultSeedYAML []byte

// seedStudent is one entry of a seed document.
type seedStudent struct {
	Name  string `yaml:"name"`
	Birth string `yaml:"birth"`
}

// seedFile is the root of a seed document.
type seedFile struct {
	Students []seedStudent `yaml:"students"`
}

// loadSeed parses the seed document at path, falling back to the embedded
// default when path is empty. Entry contents are not validated here; New
// feeds them through CreateStudent, which is where the rules live.
func loadSeed(path string) ([]seedStudent, error) {
	raw := defaultSeedYAML
	if path != "" {
		fileRaw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = fileRaw
	}

	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	return doc.Students, nil
}
