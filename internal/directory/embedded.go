package directory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// embeddedFile is the layout of the fallback account table:
//
//	accounts:
//	  - id: 7
//	    code: "100-1"
//	    name: "Blagajna"
type embeddedFile struct {
	Accounts []embeddedAccount `yaml:"accounts"`
}

type embeddedAccount struct {
	ID   int64  `yaml:"id"`
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// LoadEmbeddedTable reads the fallback account table from a YAML file. An
// empty path yields an empty table.
func LoadEmbeddedTable(path string) (*Snapshot, error) {
	if path == "" {
		return NewSnapshot(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback accounts file: %w", err)
	}

	return ParseEmbeddedTable(data)
}

// ParseEmbeddedTable parses a fallback account table. Entries whose code
// normalizes to "" are dropped, like rows coming from the external directory.
func ParseEmbeddedTable(data []byte) (*Snapshot, error) {
	var file embeddedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fallback accounts file: %w", err)
	}

	snap := NewSnapshot()
	for _, acc := range file.Accounts {
		snap.Add(acc.Code, acc.ID, acc.Name)
	}

	return snap, nil
}
