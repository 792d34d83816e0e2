package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"brale-dashboard-go/internal/models"
	"brale-dashboard-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	service := &Service{db: db}
	if err := service.initSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func TestNewService_InvalidConfig(t *testing.T) {
	ctx := context.Background()
	cases := []models.DatabaseConfig{
		{Path: "", MaxOpenConns: 1, PingTimeout: time.Second},
		{Path: "x.db", MaxOpenConns: 0, PingTimeout: time.Second},
		{Path: "x.db", MaxOpenConns: 1, MaxIdleConns: -1, PingTimeout: time.Second},
		{Path: "x.db", MaxOpenConns: 1, PingTimeout: 0},
	}
	for _, cfg := range cases {
		if _, err := NewService(ctx, cfg); err == nil {
			t.Errorf("Expected error for config %+v", cfg)
		}
	}
}

func TestNewService_FileDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := models.DatabaseConfig{
		Path:         t.TempDir() + "/brale.db",
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		PingTimeout:  time.Second,
	}

	service, err := NewService(ctx, cfg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer service.Close()

	if err := service.SaveToken(ctx, store.BearerTokenKey, "abc"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
}

func TestGetToken_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.GetToken(context.Background(), store.BearerTokenKey)
	if !errors.Is(err, store.ErrTokenNotFound) {
		t.Fatalf("Expected ErrTokenNotFound, got %v", err)
	}
}

func TestSaveToken_RoundTripAndOverwrite(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.SaveToken(ctx, store.BearerTokenKey, "first"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if err := service.SaveToken(ctx, store.BearerTokenKey, "second"); err != nil {
		t.Fatalf("SaveToken overwrite failed: %v", err)
	}

	token, err := service.GetToken(ctx, store.BearerTokenKey)
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if token.Token != "second" {
		t.Errorf("Expected token 'second', got %q", token.Token)
	}
	if token.Name != store.BearerTokenKey {
		t.Errorf("Expected name %q, got %q", store.BearerTokenKey, token.Name)
	}
	if token.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}
}

func TestSaveToken_RejectsEmpty(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	if err := service.SaveToken(context.Background(), store.BearerTokenKey, ""); err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestDeleteToken(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := service.DeleteToken(ctx, store.BearerTokenKey); !errors.Is(err, store.ErrTokenNotFound) {
		t.Fatalf("Expected ErrTokenNotFound deleting missing token, got %v", err)
	}

	if err := service.SaveToken(ctx, store.BearerTokenKey, "abc"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if err := service.DeleteToken(ctx, store.BearerTokenKey); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if _, err := service.GetToken(ctx, store.BearerTokenKey); !errors.Is(err, store.ErrTokenNotFound) {
		t.Fatalf("Expected token to be gone, got %v", err)
	}
}

func TestLoadHistory(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		err := service.RecordLoad(ctx, models.LoadRecord{
			SessionId:   "session",
			Activation:  uint64(i),
			AccountId:   "acc-1",
			WalletCount: 2,
			Unavailable: i,
			GrandTotal:  decimal.RequireFromString("17.50"),
			FetchedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordLoad failed: %v", err)
		}
	}

	records, err := service.GetLoadHistory(ctx, 2, 0)
	if err != nil {
		t.Fatalf("GetLoadHistory failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Activation != 3 || records[1].Activation != 2 {
		t.Errorf("Expected most recent first, got activations %d, %d", records[0].Activation, records[1].Activation)
	}
	if !records[0].GrandTotal.Equal(decimal.RequireFromString("17.5")) {
		t.Errorf("Expected grand total 17.5, got %s", records[0].GrandTotal)
	}
	if records[0].Id == "" {
		t.Error("Expected generated id")
	}
	if !records[0].FetchedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("Unexpected fetched_at %v", records[0].FetchedAt)
	}

	older, err := service.GetLoadHistory(ctx, 10, 2)
	if err != nil {
		t.Fatalf("GetLoadHistory with offset failed: %v", err)
	}
	if len(older) != 1 || older[0].Activation != 1 {
		t.Errorf("Expected only activation 1 at offset 2, got %+v", older)
	}
}
