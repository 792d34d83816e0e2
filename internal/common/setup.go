package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"brale-dashboard-go/internal/brale"
	"brale-dashboard-go/internal/catalog"
	"brale-dashboard-go/internal/dashboard"
	"brale-dashboard-go/internal/database"
	"brale-dashboard-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService        *database.Service
	BraleService     *brale.Service
	DashboardService *dashboard.Service
}

// InitializeLogger installs a production zap logger at the given level as the global logger.
func InitializeLogger(level string) (*zap.Logger, func()) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			log.Printf("Invalid LOG_LEVEL %q, using info\n", level)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	braleService, err := InitializeBraleOnly(cfg)
	if err != nil {
		dbService.Close()
		return nil, err
	}

	dashboardService := dashboard.NewService(braleService, dbService, cfg.Fetch.MaxConcurrency)

	return &Services{
		DbService:        dbService,
		BraleService:     braleService,
		DashboardService: dashboardService,
	}, nil
}

// InitializeBraleOnly builds the API client without opening the database.
func InitializeBraleOnly(cfg *models.Config) (*brale.Service, error) {
	valueTypes, err := catalog.Load(cfg.Fetch.ValueTypesFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load value type catalog: %w", err)
	}
	zap.L().Info("Value type catalog loaded",
		zap.Int("count", len(valueTypes)),
		zap.String("file", cfg.Fetch.ValueTypesFile))

	braleService, err := brale.NewService(brale.ServiceConfig{
		AuthURL:        cfg.Brale.AuthURL,
		ApiURL:         cfg.Brale.ApiURL,
		HttpTimeout:    cfg.Brale.HttpTimeout,
		ValueTypes:     valueTypes,
		MaxConcurrency: cfg.Fetch.MaxConcurrency,
		RateLimit:      cfg.Fetch.RateLimit,
		RateBurst:      cfg.Fetch.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create brale service: %w", err)
	}
	return braleService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
