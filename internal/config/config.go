// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Defaults.
const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 5000
	DefaultMusicDir = "static/static_music"
)

// ErrInvalidPort is returned when PORT is not a valid TCP port.
var ErrInvalidPort = errors.New("invalid PORT environment variable")

// Config holds all runtime configuration.
type Config struct {
	// Spotify client credentials. Both must be set to enable search.
	SpotifyClientID     string
	SpotifyClientSecret string

	Host     string
	Port     int
	MusicDir string // root holding one directory per mood

	LogLevel  logrus.Level
	LogFormat string // "text" or "json"
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	port := DefaultPort
	if raw := os.Getenv("PORT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 65535 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPort, raw)
		}
		port = n
	}

	level, err := logrus.ParseLevel(envStr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}

	return &Config{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		Host:                envStr("HOST", DefaultHost),
		Port:                port,
		MusicDir:            envStr("MUSIC_DIR", DefaultMusicDir),
		LogLevel:            level,
		LogFormat:           envStr("LOG_FORMAT", "text"),
	}, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewLogger builds a logger from the configured level and format.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
