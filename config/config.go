package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root configuration structure.
type Config struct {
	TruckFactor TruckFactorConfig `koanf:"truckFactor" json:"truckFactor"`
	Coupling    CouplingConfig    `koanf:"coupling" json:"coupling"`
	Filters     FilterConfig      `koanf:"filters" json:"filters"`
	History     HistoryConfig     `koanf:"history" json:"history"`
	Authors     AuthorsConfig     `koanf:"authors" json:"authors"`
}

// TruckFactorConfig holds degree-of-authorship and truck factor options.
type TruckFactorConfig struct {
	DOAThreshold        float64  `koanf:"doaThreshold" json:"doaThreshold"`               // Default: 0.5
	CoverageThreshold   float64  `koanf:"coverageThreshold" json:"coverageThreshold"`     // Default: 0.5
	IgnorableExtensions []string `koanf:"ignorableExtensions" json:"ignorableExtensions"` // Default: json, md
	Workers             int      `koanf:"workers" json:"workers"`                         // 0 = GOMAXPROCS
	Top                 int      `koanf:"top" json:"top"`                                 // Default: 10
}

// CouplingConfig holds logical coupling options.
type CouplingConfig struct {
	SortAscending     bool `koanf:"sortAscending" json:"sortAscending"`
	MaxFilesPerCommit int  `koanf:"maxFilesPerCommit" json:"maxFilesPerCommit"` // 0 = unlimited
	MinCount          int  `koanf:"minCount" json:"minCount"`                   // Default: 1
	TopPairs          int  `koanf:"topPairs" json:"topPairs"`                   // 0 = all
}

// FilterConfig holds file path filtering options.
type FilterConfig struct {
	Include []string `koanf:"include" json:"include"`
	Exclude []string `koanf:"exclude" json:"exclude"`
}

// HistoryConfig holds history reading options.
type HistoryConfig struct {
	Branch     string `koanf:"branch" json:"branch"`   // Default: HEAD
	Backend    string `koanf:"backend" json:"backend"` // gogit or cli
	SkipMerges bool   `koanf:"skipMerges" json:"skipMerges"`
}

// AuthorsConfig holds author identity options.
type AuthorsConfig struct {
	IgnoreEmailCase bool `koanf:"ignoreEmailCase" json:"ignoreEmailCase"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		TruckFactor: TruckFactorConfig{
			DOAThreshold:        0.5,
			CoverageThreshold:   0.5,
			IgnorableExtensions: []string{"json", "md"},
			Top:                 10,
		},
		Coupling: CouplingConfig{
			MinCount: 1,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
		History: HistoryConfig{
			Branch:  "HEAD",
			Backend: "gogit",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validateThreshold("truckFactor.doaThreshold", c.TruckFactor.DOAThreshold); err != nil {
		return err
	}
	if err := validateThreshold("truckFactor.coverageThreshold", c.TruckFactor.CoverageThreshold); err != nil {
		return err
	}

	limits := []struct {
		key   string
		value int
	}{
		{"truckFactor.workers", c.TruckFactor.Workers},
		{"truckFactor.top", c.TruckFactor.Top},
		{"coupling.maxFilesPerCommit", c.Coupling.MaxFilesPerCommit},
		{"coupling.minCount", c.Coupling.MinCount},
		{"coupling.topPairs", c.Coupling.TopPairs},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", l.key, l.value)
		}
	}
	return nil
}

func validateThreshold(key string, v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %g", key, v)
	}
	return nil
}

// configNames are searched in order in each candidate directory.
var configNames = []string{
	".truckfactor.json",
	".truckfactor.yaml",
	".truckfactor.yml",
	".truckfactor.toml",
}

// LoadConfig loads configuration from a file, merging with defaults.
// An empty path searches the working directory, then the home directory.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Load reads the file at path over the defaults and validates the result.
// The parser is picked from the file extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		parser = json.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func findConfig() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}

	for _, dir := range dirs {
		for _, name := range configNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}
