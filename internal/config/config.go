/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"brale-dashboard-go/internal/models"
)

const (
	DefaultAuthURL = "https://auth.brale.xyz"
	DefaultApiURL  = "https://api.brale.xyz"
)

func Load() (*models.Config, error) {
	httpTimeout, err := getEnvDuration("BRALE_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	// A dashboard load issues |transfer_types| x |catalog| requests per wallet.
	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &models.Config{
		Brale: models.BraleConfig{
			AuthURL:      strings.TrimRight(getEnvString("BRALE_AUTH_URL", DefaultAuthURL), "/"),
			ApiURL:       strings.TrimRight(getEnvString("BRALE_API_URL", DefaultApiURL), "/"),
			ClientId:     getEnvString("BRALE_CLIENT_ID", ""),
			ClientSecret: getEnvString("BRALE_CLIENT_SECRET", ""),
			HttpTimeout:  httpTimeout,
		},
		Fetch: models.FetchConfig{
			MaxConcurrency: getEnvInt("BRALE_MAX_CONCURRENCY", 8),
			RateLimit:      getEnvFloat("BRALE_RATE_LIMIT", 20),
			RateBurst:      getEnvInt("BRALE_RATE_BURST", 5),
			ValueTypesFile: getEnvString("VALUE_TYPES_FILE", ""),
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "brale.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Server: models.ServerConfig{
			Addr:         getEnvString("SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *models.Config) error {
	if cfg.Brale.AuthURL == "" || cfg.Brale.ApiURL == "" {
		return fmt.Errorf("BRALE_AUTH_URL and BRALE_API_URL cannot be empty")
	}
	if cfg.Brale.HttpTimeout <= 0 {
		return fmt.Errorf("BRALE_HTTP_TIMEOUT must be positive, got %v", cfg.Brale.HttpTimeout)
	}
	if cfg.Fetch.MaxConcurrency <= 0 {
		return fmt.Errorf("BRALE_MAX_CONCURRENCY must be positive, got %d", cfg.Fetch.MaxConcurrency)
	}
	if cfg.Fetch.RateLimit <= 0 {
		return fmt.Errorf("BRALE_RATE_LIMIT must be positive, got %v", cfg.Fetch.RateLimit)
	}
	if cfg.Fetch.RateBurst <= 0 {
		return fmt.Errorf("BRALE_RATE_BURST must be positive, got %d", cfg.Fetch.RateBurst)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
