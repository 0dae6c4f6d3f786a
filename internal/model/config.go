package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete mailsift configuration
type Config struct {
	Roots  RootsConfig  `json:"roots" yaml:"roots"`
	Search SearchConfig `json:"search" yaml:"search"`
	Output OutputConfig `json:"output" yaml:"output"`
	Cache  CacheConfig  `json:"cache" yaml:"cache"`
}

// RootsConfig describes where the .eml trees live
type RootsConfig struct {
	// Base is the directory that contains the inbox and outbox trees
	Base string `json:"base" yaml:"base"`

	// Inbox is the inbox directory, relative to Base unless absolute
	Inbox string `json:"inbox" yaml:"inbox"`

	// Outbox is the outbox directory, relative to Base unless absolute
	Outbox string `json:"outbox" yaml:"outbox"`
}

// SearchConfig holds settings for the verification phase
type SearchConfig struct {
	// Workers is the verification worker count (1 = strictly sequential)
	Workers int `json:"workers" yaml:"workers"`

	// CaseSensitive makes both the prefilter and the verifier case-sensitive
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	// FadeAge selects the subtle fade date scheme instead of the obvious one
	FadeAge bool `json:"fade_age" yaml:"fade_age"`

	// LogFile is the path results are mirrored to when logging is enabled
	LogFile string `json:"log_file" yaml:"log_file"`

	// Verbose enables diagnostic output on stderr
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// CacheConfig holds verification-result cache settings
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	TTL     time.Duration `json:"ttl" yaml:"ttl"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	base := os.Getenv("MAILSIFT_BASE")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, "mail_archive")
	}

	return &Config{
		Roots: RootsConfig{
			Base:   base,
			Inbox:  "inbox",
			Outbox: "outbox",
		},
		Search: SearchConfig{
			Workers: 6,
		},
		Output: OutputConfig{
			LogFile: "output.txt",
		},
		Cache: CacheConfig{
			TTL: 15 * time.Minute,
		},
	}
}

// InboxPath resolves the inbox root against Base when relative
func (c *Config) InboxPath() string {
	return resolveRoot(c.Roots.Base, c.Roots.Inbox)
}

// OutboxPath resolves the outbox root against Base when relative
func (c *Config) OutboxPath() string {
	return resolveRoot(c.Roots.Base, c.Roots.Outbox)
}

// OutboxToken returns the leaf directory name of the outbox root, used to
// tint paths by tree area
func (c *Config) OutboxToken() string {
	name := filepath.Base(c.OutboxPath())
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "outbox"
	}
	return name
}

func resolveRoot(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	abs, err := filepath.Abs(filepath.Join(base, dir))
	if err != nil {
		return filepath.Join(base, dir)
	}
	return abs
}
