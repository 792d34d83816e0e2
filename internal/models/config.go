package models

import "time"

// Config represents the application configuration
type Config struct {
	Brale    BraleConfig
	Fetch    FetchConfig
	Database DatabaseConfig
	Server   ServerConfig
	LogLevel string
}

// BraleConfig holds upstream endpoints and client credentials
type BraleConfig struct {
	AuthURL      string
	ApiURL       string
	ClientId     string
	ClientSecret string
	HttpTimeout  time.Duration
}

// FetchConfig holds balance fan-out settings
type FetchConfig struct {
	MaxConcurrency int
	RateLimit      float64
	RateBurst      int
	ValueTypesFile string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}
