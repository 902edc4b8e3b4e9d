package metadata

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

//go:embed entities.toml
var defaultDefinitions []byte

type definitionsFile struct {
	Entities []EntityDefinition `toml:"entity"`
}

// LoadDefinitions parses entity definitions from TOML. Every definition
// is validated; unknown keys are rejected.
func LoadDefinitions(r io.Reader) ([]EntityDefinition, error) {
	var file definitionsFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode entity definitions: %w", err)
	}

	for _, def := range file.Entities {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid entity definition: %w", err)
		}
	}
	return file.Entities, nil
}

// LoadRegistry builds a registry from TOML definitions.
func LoadRegistry(r io.Reader) (*Registry, error) {
	defs, err := LoadDefinitions(r)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Default returns a registry holding the built-in entity definitions
// (Company, Bank, Agency, User).
func Default() (*Registry, error) {
	return LoadRegistry(bytes.NewReader(defaultDefinitions))
}
