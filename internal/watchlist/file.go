package watchlist

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the watch-list seed file.
type File struct {
	// Overrides pins strategies for codes that arrive without one.
	Overrides map[string]string `yaml:"overrides"`
	// Tickers is the fallback list used when the remote provider is unavailable.
	Tickers []RawTicker `yaml:"tickers"`
}

// LoadFile reads and validates a YAML seed file. Unknown fields are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(data)
}

// ParseFile decodes a YAML seed document.
func ParseFile(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}

	for code, s := range f.Overrides {
		if _, ok := ParseStrategy(s); !ok {
			return nil, fmt.Errorf("override %s: unknown strategy %q", code, s)
		}
	}

	for i, t := range f.Tickers {
		if t.Code == "" {
			return nil, fmt.Errorf("tickers[%d]: %w", i, ErrEmptyCode)
		}
	}

	return &f, nil
}

// OverrideTable returns the parsed override table.
func (f *File) OverrideTable() Overrides {
	out := make(Overrides, len(f.Overrides))
	for code, s := range f.Overrides {
		strategy, _ := ParseStrategy(s)
		out[code] = strategy
	}
	return out
}
