package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aaronsewall/spotify-popularity-playlist/dedupe"
	"github.com/aaronsewall/spotify-popularity-playlist/matching"
)

// Config holds all configuration values
type Config struct {
	Spotify SpotifyConfig
	Dedupe  DedupeConfig
}

// SpotifyConfig holds Spotify API configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Username     string // Owner of created playlists; resolved from the login session when empty
}

// DedupeConfig holds deduplication tuning
type DedupeConfig struct {
	Threshold int    // Similarity score a pair must exceed to collapse; out-of-range values pass through untouched
	Scorer    string // Scoring mode name: "token-sort" or "token-set"
}

// Load loads configuration following the specified order:
// 1. Start with default values (redirect URI, threshold, scoring mode)
// 2. Load from OS environment variables (only if they exist)
// 3. Load from .env file (only if it exists and values exist)
func Load() (*Config, error) {
	config := &Config{}

	// Step 1: Initialize with default values
	config.initializeDefaults()

	// Step 2: Load from OS environment variables (only if they exist)
	config.loadFromOSEnv()

	// Step 3: Load from .env file (only if it exists and values exist)
	config.loadFromEnvFile()

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides
func LoadWithOverrides(overrides map[string]string) (*Config, error) {
	config := &Config{}

	// Step 1: Initialize with default values
	config.initializeDefaults()

	// Step 2: Load from OS environment variables (only if they exist)
	config.loadFromOSEnv()

	// Step 3: Load from .env file (only if it exists and values exist)
	config.loadFromEnvFile()

	// Step 4: Apply CLI flag overrides (only if they exist)
	config.applyOverrides(overrides)

	// Validate required configuration after all sources have been loaded
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// initializeDefaults sets up the initial configuration with default values
func (c *Config) initializeDefaults() {
	c.Spotify = SpotifyConfig{
		ClientID:     "",                               // Empty by default
		ClientSecret: "",                               // Empty by default
		RedirectURI:  "http://localhost:8080/callback", // Default value
		Username:     "",                               // Empty by default (resolved at login)
	}

	c.Dedupe = DedupeConfig{
		Threshold: dedupe.DefaultThreshold,
		Scorer:    matching.ModeTokenSort,
	}
}

// loadFromOSEnv loads configuration from OS environment variables (only if they exist)
func (c *Config) loadFromOSEnv() {
	// Spotify configuration
	if value := os.Getenv("SPOTIFY_CLIENT_ID"); value != "" {
		c.Spotify.ClientID = value
	}
	if value := os.Getenv("SPOTIFY_CLIENT_SECRET"); value != "" {
		c.Spotify.ClientSecret = value
	}
	if value := os.Getenv("SPOTIFY_REDIRECT_URI"); value != "" {
		c.Spotify.RedirectURI = value
	}
	if value := os.Getenv("SPOTIFY_USERNAME"); value != "" {
		c.Spotify.Username = value
	}

	// Dedupe configuration
	if value := os.Getenv("DEDUPE_THRESHOLD"); value != "" {
		if threshold, err := parseThreshold(value); err == nil {
			c.Dedupe.Threshold = threshold
		}
	}
	if value := os.Getenv("DEDUPE_SCORER"); value != "" {
		c.Dedupe.Scorer = value
	}
}

// loadFromEnvFile loads configuration from .env file (only if it exists and values exist)
func (c *Config) loadFromEnvFile() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// .env file doesn't exist, skip this step
		return
	}

	// Spotify configuration (only replace if values exist and are not empty)
	if value := os.Getenv("SPOTIFY_CLIENT_ID"); value != "" {
		c.Spotify.ClientID = value
	}
	if value := os.Getenv("SPOTIFY_CLIENT_SECRET"); value != "" {
		c.Spotify.ClientSecret = value
	}
	if value := os.Getenv("SPOTIFY_REDIRECT_URI"); value != "" {
		c.Spotify.RedirectURI = value
	}
	if value := os.Getenv("SPOTIFY_USERNAME"); value != "" {
		c.Spotify.Username = value
	}

	// Dedupe configuration (only replace if values exist and are not empty)
	if value := os.Getenv("DEDUPE_THRESHOLD"); value != "" {
		if threshold, err := parseThreshold(value); err == nil {
			c.Dedupe.Threshold = threshold
		}
	}
	if value := os.Getenv("DEDUPE_SCORER"); value != "" {
		c.Dedupe.Scorer = value
	}
}

// parseThreshold parses the similarity threshold from string
func parseThreshold(value string) (int, error) {
	threshold, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold '%s': %w", value, err)
	}

	return threshold, nil
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	var missingFields []string

	// Check Spotify credentials
	if c.Spotify.ClientID == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_ID")
	}
	if c.Spotify.ClientSecret == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_SECRET")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration values:\n%s\n\nSet these values via environment variables, .env file, or CLI flags", strings.Join(missingFields, "\n"))
	}

	return nil
}

// applyOverrides applies CLI flag overrides to the configuration (only if they exist)
func (c *Config) applyOverrides(overrides map[string]string) {
	for key, value := range overrides {
		// Only apply if the value is not empty
		if value == "" {
			continue
		}

		switch key {
		case "SPOTIFY_CLIENT_ID":
			c.Spotify.ClientID = value
		case "SPOTIFY_CLIENT_SECRET":
			c.Spotify.ClientSecret = value
		case "SPOTIFY_REDIRECT_URI":
			c.Spotify.RedirectURI = value
		case "SPOTIFY_USERNAME":
			c.Spotify.Username = value
		case "DEDUPE_THRESHOLD":
			if threshold, err := parseThreshold(value); err == nil {
				c.Dedupe.Threshold = threshold
			}
		case "DEDUPE_SCORER":
			c.Dedupe.Scorer = value
		}
	}
}
