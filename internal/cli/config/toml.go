package config

import (
	"github.com/pelletier/go-toml/v2"
)

// TOML is a koanf parser for TOML config files.
type TOML struct{}

// TOMLParser returns a koanf parser for TOML.
func TOMLParser() *TOML {
	return &TOML{}
}

// Unmarshal parses TOML bytes into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal renders a nested map as TOML.
func (p *TOML) Marshal(m map[string]any) ([]byte, error) {
	return toml.Marshal(m)
}
