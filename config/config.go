// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds configuration for a catalog cache.
type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Remote  RemoteConfig  `koanf:"remote"`
	Sync    SyncConfig    `koanf:"sync"`
}

// StorageConfig selects where the catalog mirror is persisted.
type StorageConfig struct {
	// Backend is one of "badger", "sqlite" or "memory".
	// Default: "badger"
	Backend string `koanf:"backend"`

	// Path is the badger directory or sqlite file. Ignored for "memory".
	Path string `koanf:"path"`
}

// RemoteConfig describes the remote catalog service.
type RemoteConfig struct {
	// BaseURL is the root of the catalog REST facade.
	// Example: "https://catalog.example.com/v1"
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each HTTP request.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`

	// BreakerFailures is how many consecutive failures open the circuit.
	// Default: 5
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the circuit stays open.
	// Default: 1m
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// SyncConfig tunes the sync engine.
type SyncConfig struct {
	// ProbeLimit is the record cap for each existence probe.
	// Default: 1
	ProbeLimit int `koanf:"probe_limit"`

	// PoolSize is the number of workers for concurrent remote queries.
	// Default: 2
	PoolSize int `koanf:"pool_size"`

	// BootstrapAttempts is how many times a full download is tried.
	// Default: 3
	BootstrapAttempts int `koanf:"bootstrap_attempts"`

	// BootstrapDelay is the base backoff between download attempts.
	// Default: 500ms
	BootstrapDelay time.Duration `koanf:"bootstrap_delay"`

	// MinRefreshInterval throttles activity-triggered refreshes.
	// Default: 30s
	MinRefreshInterval time.Duration `koanf:"min_refresh_interval"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithStorage sets the storage backend and path.
func WithStorage(backend, path string) Option {
	return func(c *Config) {
		c.Storage.Backend = backend
		c.Storage.Path = path
	}
}

// WithMemoryStorage keeps the mirror in memory only.
func WithMemoryStorage() Option {
	return func(c *Config) {
		c.Storage.Backend = BackendMemory
		c.Storage.Path = ""
	}
}

// WithRemoteURL sets the catalog service base URL.
func WithRemoteURL(baseURL string) Option {
	return func(c *Config) {
		c.Remote.BaseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout for the catalog service.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Remote.Timeout = d
	}
}

// WithBreaker sets the circuit breaker trip threshold and open duration.
func WithBreaker(failures uint32, timeout time.Duration) Option {
	return func(c *Config) {
		c.Remote.BreakerFailures = failures
		c.Remote.BreakerTimeout = timeout
	}
}

// WithProbeLimit sets the existence probe size.
func WithProbeLimit(limit int) Option {
	return func(c *Config) {
		c.Sync.ProbeLimit = limit
	}
}

// WithPoolSize sets the remote query worker count.
func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.Sync.PoolSize = size
	}
}

// WithBootstrapRetry sets the full download attempts and base delay.
func WithBootstrapRetry(attempts int, delay time.Duration) Option {
	return func(c *Config) {
		c.Sync.BootstrapAttempts = attempts
		c.Sync.BootstrapDelay = delay
	}
}

// WithMinRefreshInterval sets the activity refresh throttle.
func WithMinRefreshInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Sync.MinRefreshInterval = d
	}
}

// DefaultConfig returns a Config with defaults for a local badger mirror.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendBadger,
			Path:    "skinshelf.db",
		},
		Remote: RemoteConfig{
			Timeout:         30 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  time.Minute,
		},
		Sync: SyncConfig{
			ProbeLimit:         1,
			PoolSize:           2,
			BootstrapAttempts:  3,
			BootstrapDelay:     500 * time.Millisecond,
			MinRefreshInterval: 30 * time.Second,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithStorage(BackendSQLite, "/var/lib/skinshelf/catalog.sqlite"),
//	    WithRemoteURL("https://catalog.example.com/v1"),
//	)
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the configuration in canonical form.
func (c *Config) Normalize() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	c.Storage.Path = strings.TrimSpace(c.Storage.Path)
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	switch c.Storage.Backend {
	case BackendBadger, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}

	if c.Remote.BaseURL != "" {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: remote.base_url %q is not an http(s) URL", c.Remote.BaseURL)
		}
	}
	if c.Remote.Timeout <= 0 {
		return errors.New("config: remote.timeout must be positive")
	}
	if c.Remote.BreakerFailures == 0 {
		return errors.New("config: remote.breaker_failures must be at least 1")
	}
	if c.Remote.BreakerTimeout <= 0 {
		return errors.New("config: remote.breaker_timeout must be positive")
	}

	if c.Sync.ProbeLimit < 1 {
		return errors.New("config: sync.probe_limit must be at least 1")
	}
	if c.Sync.PoolSize < 1 {
		return errors.New("config: sync.pool_size must be at least 1")
	}
	if c.Sync.BootstrapAttempts < 1 {
		return errors.New("config: sync.bootstrap_attempts must be at least 1")
	}
	if c.Sync.BootstrapDelay < 0 {
		return errors.New("config: sync.bootstrap_delay must not be negative")
	}
	if c.Sync.MinRefreshInterval < 0 {
		return errors.New("config: sync.min_refresh_interval must not be negative")
	}
	return nil
}
