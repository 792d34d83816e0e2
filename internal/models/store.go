package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoredToken is a persisted bearer token
type StoredToken struct {
	Name      string
	Token     string
	UpdatedAt time.Time
}

// LoadRecord summarizes one completed wallet-view activation
type LoadRecord struct {
	Id           string          `json:"id"`
	SessionId    string          `json:"session_id"`
	Activation   uint64          `json:"activation"`
	AccountId    string          `json:"account_id,omitempty"`
	UsedFallback bool            `json:"used_fallback"`
	WalletCount  int             `json:"wallet_count"`
	Unavailable  int             `json:"unavailable"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Notice       string          `json:"notice,omitempty"`
	FetchedAt    time.Time       `json:"fetched_at"`
}
