package store

import (
	"context"
	"errors"

	"brale-dashboard-go/internal/models"
)

// BearerTokenKey is the fixed name the current bearer token is stored under.
const BearerTokenKey = "bearerToken"

// Sentinel errors shared across all backend implementations.
var (
	ErrTokenNotFound = errors.New("no stored token")
)

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	SaveToken(ctx context.Context, name, token string) error
	GetToken(ctx context.Context, name string) (*models.StoredToken, error)
	DeleteToken(ctx context.Context, name string) error
}

// HistoryStore keeps a summary of each completed dashboard load.
type HistoryStore interface {
	RecordLoad(ctx context.Context, record models.LoadRecord) error
	GetLoadHistory(ctx context.Context, limit, offset int) ([]models.LoadRecord, error)
}

// Store defines the contract every backend must satisfy.
type Store interface {
	TokenStore
	HistoryStore

	// --- Lifecycle ---
	Close()
}
