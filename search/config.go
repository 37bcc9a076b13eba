package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/sas/internal/matcher"
	"github.com/gnoswap-labs/sas/query"
)

// DefaultConfigFile is the configuration looked up in the working
// directory.
const DefaultConfigFile = ".sas.yaml"

// Config represents the overall configuration with a name and a set of
// named queries.
type Config struct {
	Name string `yaml:"name"`
	// Mode lists the enabled match flags: declaration, expression or all.
	Mode        []string              `yaml:"mode,omitempty"`
	Strict      bool                  `yaml:"strict,omitempty"`
	IgnorePaths []string              `yaml:"ignore_paths,omitempty"`
	Queries     map[string]query.Spec `yaml:"queries"`
}

// DefaultConfig is the configuration written by "sas init".
func DefaultConfig() Config {
	return Config{
		Name: "sas",
		Mode: []string{"declaration"},
		Queries: map[string]query.Spec{
			"main": {Query: "main:int(...)"},
		},
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig parses a YAML configuration.
func ParseConfig(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Compile compiles every configured query.
func (c Config) Compile() (map[string]query.Pattern, error) {
	patterns := make(map[string]query.Pattern, len(c.Queries))
	for name, spec := range c.Queries {
		p, err := spec.Compile()
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", name, err)
		}
		patterns[name] = p
	}
	return patterns, nil
}

// MatchMode returns the configured mode, matcher.Declaration by default.
func (c Config) MatchMode() (matcher.Mode, error) {
	if len(c.Mode) == 0 {
		return matcher.Declaration, nil
	}
	return matcher.ParseMode(c.Mode...)
}
