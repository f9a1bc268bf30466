package config

import "git.home.luguber.info/inful/docsnap/internal/convert"

// Defaults applied when the configuration leaves a field empty.
const (
	DefaultDescriptor     = "packages.yml"
	DefaultDocsDir        = "docs"
	DefaultAssetsDir      = "assets"
	DefaultPackagesDir    = "packages"
	DefaultPackagesReadme = "README.md"
	DefaultLicenseFile    = "LICENSE.txt"
)

// DefaultRootDocuments returns the fixed documents synced alongside the package READMEs.
func DefaultRootDocuments() []RootDocument {
	return []RootDocument{
		{Source: "README.md", Destination: "index.md", Transform: true, Required: true},
		{Source: "LICENSE.txt", Destination: "license.md"},
		{Source: "CONTRIBUTING.md", Destination: "CONTRIBUTING.md"},
		{Source: "SECURITY.md", Destination: "SECURITY.md"},
		{Source: "CODE_OF_CONDUCT.md", Destination: "CODE_OF_CONDUCT.md"},
		{Source: "ROADMAP.md", Destination: "ROADMAP.md"},
		{Source: "tests/Rivulet.Benchmarks/README.md", Destination: "benchmarks.md"},
	}
}

// DefaultBadges returns the badge rule lists used when none are configured.
func DefaultBadges() BadgesConfig {
	rules := convert.DefaultBadgeRules()
	return BadgesConfig{
		StaticDomains:      rules.StaticDomains,
		DynamicDomains:     rules.DynamicDomains,
		AggregatorDomains:  rules.AggregatorDomains,
		AggregatorKeywords: rules.AggregatorKeywords,
		RemoveLabels:       []string{"CI/CD Pipeline"},
	}
}

// DefaultAssetPrefixes returns the asset path substitutions used when none are configured.
func DefaultAssetPrefixes() []AssetPrefix {
	return []AssetPrefix{{From: `src="./assets/`, To: `src="assets/`}}
}

// applyDefaults fills every empty field. Lists are only defaulted when nil so an
// explicit empty list in YAML (e.g. `asset_prefixes: []`) disables the behavior.
func applyDefaults(cfg *Config) {
	if cfg.Descriptor == "" {
		cfg.Descriptor = DefaultDescriptor
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = DefaultDocsDir
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = DefaultAssetsDir
	}
	if cfg.RootDocuments == nil {
		cfg.RootDocuments = DefaultRootDocuments()
	}
	if cfg.Packages.DestinationDir == "" {
		cfg.Packages.DestinationDir = DefaultPackagesDir
	}
	if cfg.Packages.Readme == "" {
		cfg.Packages.Readme = DefaultPackagesReadme
	}
	if cfg.Links.LicenseFile == "" {
		cfg.Links.LicenseFile = DefaultLicenseFile
	}

	defaults := DefaultBadges()
	if cfg.Badges.StaticDomains == nil {
		cfg.Badges.StaticDomains = defaults.StaticDomains
	}
	if cfg.Badges.DynamicDomains == nil {
		cfg.Badges.DynamicDomains = defaults.DynamicDomains
	}
	if cfg.Badges.AggregatorDomains == nil {
		cfg.Badges.AggregatorDomains = defaults.AggregatorDomains
	}
	if cfg.Badges.AggregatorKeywords == nil {
		cfg.Badges.AggregatorKeywords = defaults.AggregatorKeywords
	}
	if cfg.Badges.RemoveLabels == nil {
		cfg.Badges.RemoveLabels = defaults.RemoveLabels
	}
	if cfg.AssetPrefixes == nil {
		cfg.AssetPrefixes = DefaultAssetPrefixes()
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
}
