package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the repository root.
const DefaultFileName = "docsnap.yaml"

// Config represents the docsnap configuration.
type Config struct {
	// Descriptor is the package descriptor path, relative to the repository root.
	Descriptor string `yaml:"descriptor"`
	// DocsDir is the documentation root, relative to the repository root.
	DocsDir string `yaml:"docs_dir"`
	// AssetsDir is copied to <docs_dir>/<base name> before documents are synced.
	// The copy is skipped when the directory does not exist.
	AssetsDir     string         `yaml:"assets_dir"`
	RootDocuments []RootDocument `yaml:"root_documents"`
	Packages      PackagesConfig `yaml:"packages"`
	Links         LinksConfig    `yaml:"links"`
	Badges        BadgesConfig   `yaml:"badges"`
	AssetPrefixes []AssetPrefix  `yaml:"asset_prefixes"`
	Logging       LoggingConfig  `yaml:"logging"`
	Metrics       MetricsConfig  `yaml:"metrics"`
}

// RootDocument is a fixed document synced in addition to the package READMEs.
type RootDocument struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Transform   bool   `yaml:"transform"`
	Required    bool   `yaml:"required"`
}

// PackagesConfig controls where package documentation is synced to.
type PackagesConfig struct {
	DestinationDir string `yaml:"destination_dir"` // relative to docs_dir
	Readme         string `yaml:"readme"`          // file name inside each package path
}

// LinksConfig holds link resolution settings.
type LinksConfig struct {
	// LicenseFile is the canonical file a bare LICENSE reference resolves to.
	LicenseFile string `yaml:"license_file"`
}

// BadgesConfig holds the badge classification rule lists.
type BadgesConfig struct {
	StaticDomains      []string `yaml:"static_domains"`
	DynamicDomains     []string `yaml:"dynamic_domains"`
	AggregatorDomains  []string `yaml:"aggregator_domains"`
	AggregatorKeywords []string `yaml:"aggregator_keywords"`
	// RemoveLabels are markdown image labels whose lines are always removed.
	RemoveLabels []string `yaml:"remove_labels"`
}

// AssetPrefix is a literal substitution applied before any other transform.
type AssetPrefix struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig represents metrics export configuration.
type MetricsConfig struct {
	// Textfile, when set, receives the run's metrics in Prometheus text format.
	Textfile string `yaml:"textfile"`
}

// Load reads the configuration at configPath. A missing file is not an error:
// the defaults are returned instead. Environment overrides are applied last.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if uerr := yaml.Unmarshal([]byte(expanded), cfg); uerr != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, uerr)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

