package module

import (
	"time"

	"chatclean/internal/platform/config"
	"chatclean/internal/services/clean/registry"
)

// Options holds configuration for the cleaning module (CLEAN_ prefix)
type Options struct {
	IngestPrefix   string        `env:"CLEAN_INGEST_PREFIX" validate:"required"`
	CleanPrefix    string        `env:"CLEAN_OUTPUT_PREFIX" validate:"required,nefield=IngestPrefix"`
	CatalogKey     string        `env:"CLEAN_CATALOG_KEY" validate:"required"`
	ProfilePath    string        `env:"CLEAN_PROFILE" validate:"omitempty,file"`
	DictionaryPath string        `env:"CLEAN_DICTIONARY_PATH" validate:"omitempty,file"`
	ExtraStopwords []string      `env:"CLEAN_EXTRA_STOPWORDS"`
	SpoolDir       string        `env:"CLEAN_SPOOL_DIR" validate:"omitempty,dir"`
	SourceTimeout  time.Duration `env:"CLEAN_SOURCE_TIMEOUT" validate:"gte=0"`
	WriteTimeout   time.Duration `env:"CLEAN_WRITE_TIMEOUT" validate:"gte=0"`
	DBTimeout      time.Duration `env:"CLEAN_DB_TIMEOUT" validate:"gte=0"`
	DocsBatch      int           `env:"CLEAN_DOCS_BATCH" validate:"gt=0"`
	DryRun         bool          `env:"CLEAN_DRY_RUN"`
	EnableLeases   bool          `env:"CLEAN_LEASES"`
}

// FromConfig reads the cleaning options with the CLEAN_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CLEAN_")
	return Options{
		IngestPrefix:   c.MayString("INGEST_PREFIX", "datasets-v2/"),
		CleanPrefix:    c.MayString("OUTPUT_PREFIX", "cleaned/"),
		CatalogKey:     c.MayString("CATALOG_KEY", registry.DefaultKey),
		ProfilePath:    c.MayString("PROFILE", ""),
		DictionaryPath: c.MayString("DICTIONARY_PATH", ""),
		ExtraStopwords: c.MayCSV("EXTRA_STOPWORDS", nil),
		SpoolDir:       c.MayString("SPOOL_DIR", ""),
		SourceTimeout:  c.MayDuration("SOURCE_TIMEOUT", 2*time.Hour),
		WriteTimeout:   c.MayDuration("WRITE_TIMEOUT", 5*time.Minute),
		DBTimeout:      c.MayDuration("DB_TIMEOUT", 10*time.Second),
		DocsBatch:      c.MayInt("DOCS_BATCH", 5000),
		DryRun:         c.MayBool("DRY_RUN", false),
		EnableLeases:   c.MayBool("LEASES", true),
	}
}
