package session

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCacheTTL is how long a cached object stays servable before lookups
// treat it as a miss.
const DefaultCacheTTL = 2 * time.Hour

// Parameters configures a session.
type Parameters struct {
	// RepositoryID names the repository the binding transport is bound to.
	RepositoryID string `yaml:"repository_id"`

	// MaxItemsPerPage is the default page size of the session's default
	// operation context.
	MaxItemsPerPage int64 `yaml:"max_items_per_page"`

	// CacheTTL bounds the age of cache entries served from the identity
	// cache. Zero keeps entries forever.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// CacheEnabled controls caching in the session's default operation
	// context. Per-call contexts may override it.
	CacheEnabled bool `yaml:"cache_enabled"`

	// QuietMode suppresses debug/info logs.
	QuietMode bool `yaml:"quiet_mode"`
}

// DefaultParameters returns session parameters with standard values.
func DefaultParameters(repositoryID string) *Parameters {
	return &Parameters{
		RepositoryID:    repositoryID,
		MaxItemsPerPage: DefaultMaxItemsPerPage,
		CacheTTL:        DefaultCacheTTL,
		CacheEnabled:    true,
		QuietMode:       false,
	}
}

// LoadParameters reads parameters from a YAML file, rejecting unknown keys.
// Absent keys keep their default values.
func LoadParameters(path string) (*Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parameters file: %w", err)
	}
	defer f.Close()

	params := DefaultParameters("")
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("invalid parameters file %s: %w", path, err)
	}
	if params.MaxItemsPerPage <= 0 {
		params.MaxItemsPerPage = DefaultMaxItemsPerPage
	}
	return params, nil
}
