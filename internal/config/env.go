package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables overriding configuration values.
const (
	EnvLogLevel = "DOCSNAP_LOG_LEVEL"
	EnvDocsDir  = "DOCSNAP_DOCS_DIR"
)

// loadEnvFiles loads .env and .env.local from dir when present. Variables
// already set in the process environment are never overwritten.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v := os.Getenv(EnvDocsDir); v != "" {
		cfg.DocsDir = v
	}
}
