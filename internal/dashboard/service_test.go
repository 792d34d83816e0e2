package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"brale-dashboard-go/internal/brale"
	"brale-dashboard-go/internal/models"
	"brale-dashboard-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	accountId   string
	found       bool
	wallets     []models.Address
	listErr     error
	balances    map[string]models.BalanceResult
	beforeList  func()
	mu          sync.Mutex
	listedWith  []string
	fetchedFrom []string
}

func (m *mockClient) ResolveAccountId(_ context.Context, _ string) (string, bool) {
	return m.accountId, m.found
}

func (m *mockClient) ListWallets(_ context.Context, _ string, accountId string) ([]models.Address, bool, error) {
	if m.beforeList != nil {
		m.beforeList()
	}
	m.mu.Lock()
	m.listedWith = append(m.listedWith, accountId)
	m.mu.Unlock()
	return m.wallets, accountId == "", m.listErr
}

func (m *mockClient) FetchBalances(_ context.Context, _ string, _ string, address models.Address) models.BalanceResult {
	m.mu.Lock()
	m.fetchedFrom = append(m.fetchedFrom, address.Id)
	m.mu.Unlock()
	return m.balances[address.Id]
}

type mockHistory struct {
	records []models.LoadRecord
	err     error
}

func (m *mockHistory) RecordLoad(_ context.Context, record models.LoadRecord) error {
	m.records = append(m.records, record)
	return m.err
}

func (m *mockHistory) GetLoadHistory(_ context.Context, _, _ int) ([]models.LoadRecord, error) {
	return m.records, nil
}

func entry(transferType, valueType, value string) models.BalanceEntry {
	return models.BalanceEntry{TransferType: transferType, ValueType: valueType, Balance: models.BalanceAmount{Value: value}}
}

func twoWalletClient() *mockClient {
	return &mockClient{
		accountId: "acc-1",
		found:     true,
		wallets: []models.Address{
			{Id: "w1", Type: "internal", Usage: "primary", TransferTypes: []string{"base"}},
			{Id: "w2", Type: "internal", TransferTypes: []string{"base", "solana"}},
		},
		balances: map[string]models.BalanceResult{
			"w1": {Entries: []models.BalanceEntry{entry("base", "SBC", "10.00")}},
			"w2": {
				Entries:     []models.BalanceEntry{entry("base", "SBC", "5.50"), entry("solana", "USDS", "2.00")},
				Unavailable: []models.BalanceKey{{TransferType: "solana", ValueType: "SBC"}},
			},
		},
	}
}

func TestLoad(t *testing.T) {
	client := twoWalletClient()
	history := &mockHistory{}
	svc := NewService(client, history, 2)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Load(context.Background(), "", "tok")
	require.NoError(t, err)

	assert.Equal(t, "acc-1", result.AccountId)
	assert.False(t, result.UsedFallback)
	assert.NotEmpty(t, result.SessionId)
	assert.Equal(t, uint64(1), result.Activation)
	assert.Equal(t, fixed, result.FetchedAt)
	assert.Empty(t, result.Notice)

	require.Len(t, result.Wallets, 2)
	assert.Equal(t, "w1", result.Wallets[0].Address.Id)
	assert.Equal(t, "w2", result.Wallets[1].Address.Id)
	assert.Len(t, result.Wallets[1].Unavailable, 1)

	assert.Equal(t, "15.5", result.Totals["SBC"].String())
	assert.Equal(t, "2", result.Totals["USDS"].String())
	assert.Equal(t, "17.5", result.GrandTotal.String())
	require.Len(t, result.Breakdown, 2)
	assert.Equal(t, "SBC", result.Breakdown[0].ValueType)

	require.NotNil(t, result.Primary)
	assert.Equal(t, "w1", result.Primary.Address.Id)
	assert.Equal(t, 1, result.PrimaryCount)

	require.Len(t, history.records, 1)
	assert.Equal(t, 2, history.records[0].WalletCount)
	assert.Equal(t, 1, history.records[0].Unavailable)
	assert.Equal(t, result.SessionId, history.records[0].SessionId)
}

func TestLoadNoToken(t *testing.T) {
	svc := NewService(twoWalletClient(), nil, 2)

	_, err := svc.Load(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLoadWithoutAccountFallsBack(t *testing.T) {
	client := twoWalletClient()
	client.accountId = ""
	client.found = false
	svc := NewService(client, nil, 2)

	result, err := svc.Load(context.Background(), "", "tok")
	require.NoError(t, err)

	assert.True(t, result.UsedFallback)
	assert.Equal(t, []string{""}, client.listedWith)
	assert.Empty(t, client.fetchedFrom, "balances require an account id")
	assert.Len(t, result.Wallets, 2)
	assert.Equal(t, noAccountNotice, result.Notice)
	assert.Empty(t, result.Totals)
	assert.True(t, result.GrandTotal.IsZero())
	require.NotNil(t, result.Primary)
	assert.Equal(t, "w1", result.Primary.Address.Id)
}

func TestLoadNoCustodialWallets(t *testing.T) {
	client := &mockClient{
		accountId: "acc-1",
		found:     true,
		listErr:   &brale.NoCustodialWalletsError{AccountId: "acc-1", Total: 2, Types: []string{"externally-owned"}},
	}
	history := &mockHistory{}
	svc := NewService(client, history, 2)

	result, err := svc.Load(context.Background(), "", "tok")
	require.NoError(t, err)

	assert.Empty(t, result.Wallets)
	assert.Contains(t, result.Notice, "no custodial wallets found for account acc-1")
	assert.Nil(t, result.Primary)
	assert.Len(t, history.records, 1)
}

func TestLoadListError(t *testing.T) {
	client := &mockClient{
		accountId: "acc-1",
		found:     true,
		listErr:   &brale.FetchError{Resource: "addresses", StatusCode: 500, Status: "Internal Server Error"},
	}
	history := &mockHistory{}
	svc := NewService(client, history, 2)

	result, err := svc.Load(context.Background(), "", "tok")
	assert.Nil(t, result)

	var fetchErr *brale.FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Empty(t, history.records)
}

func TestLoadHistoryFailureIsNotFatal(t *testing.T) {
	svc := NewService(twoWalletClient(), &mockHistory{err: errors.New("disk full")}, 2)

	result, err := svc.Load(context.Background(), "", "tok")
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestLoadOverlappingActivations(t *testing.T) {
	tests := []struct {
		name            string
		firstView       string
		firstToken      string
		secondView      string
		secondToken     string
		expectSupersede bool
	}{
		{
			name:            "same_token_replaces_earlier_load",
			firstToken:      "tok-a",
			secondToken:     "tok-a",
			expectSupersede: true,
		},
		{
			name:            "stored_token_refresh_replaces_earlier_load",
			firstView:       StoredTokenView,
			firstToken:      "old-token",
			secondView:      StoredTokenView,
			secondToken:     "new-token",
			expectSupersede: true,
		},
		{
			name:        "different_tokens_are_independent",
			firstToken:  "user-a",
			secondToken: "user-b",
		},
		{
			name:        "explicit_token_does_not_replace_stored_view",
			firstView:   StoredTokenView,
			firstToken:  "stored",
			secondToken: "from-header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := twoWalletClient()
			svc := NewService(client, nil, 2)

			entered := make(chan struct{})
			release := make(chan struct{})
			var once sync.Once
			client.beforeList = func() {
				first := false
				once.Do(func() { first = true })
				if first {
					close(entered)
					<-release
				}
			}

			type outcome struct {
				result *models.Dashboard
				err    error
			}
			done := make(chan outcome, 1)
			go func() {
				result, err := svc.Load(context.Background(), tt.firstView, tt.firstToken)
				done <- outcome{result, err}
			}()

			<-entered
			second, err := svc.Load(context.Background(), tt.secondView, tt.secondToken)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), second.Activation)

			close(release)
			first := <-done
			if tt.expectSupersede {
				assert.Nil(t, first.result)
				assert.ErrorIs(t, first.err, ErrSuperseded)
			} else {
				require.NoError(t, first.err)
				require.NotNil(t, first.result)
				assert.Equal(t, uint64(1), first.result.Activation)
				assert.Len(t, first.result.Wallets, 2)
			}

			svc.mu.Lock()
			assert.Empty(t, svc.views, "view state must be released once loads finish")
			svc.mu.Unlock()
		})
	}
}

func TestLoadSequentialLoadsOfSameViewSucceed(t *testing.T) {
	svc := NewService(twoWalletClient(), nil, 2)

	first, err := svc.Load(context.Background(), StoredTokenView, "tok")
	require.NoError(t, err)
	second, err := svc.Load(context.Background(), StoredTokenView, "tok")
	require.NoError(t, err)

	assert.Less(t, first.Activation, second.Activation)
}

type mockTokenStore struct {
	token *models.StoredToken
	err   error
}

func (m *mockTokenStore) SaveToken(context.Context, string, string) error { return nil }
func (m *mockTokenStore) DeleteToken(context.Context, string) error       { return nil }
func (m *mockTokenStore) GetToken(context.Context, string) (*models.StoredToken, error) {
	return m.token, m.err
}

func TestResolveToken(t *testing.T) {
	ctx := context.Background()

	token, err := ResolveToken(ctx, &mockTokenStore{err: errors.New("unused")}, "explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", token)

	token, err = ResolveToken(ctx, &mockTokenStore{token: &models.StoredToken{Token: "stored"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "stored", token)

	_, err = ResolveToken(ctx, &mockTokenStore{err: store.ErrTokenNotFound}, "")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = ResolveToken(ctx, nil, "")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = ResolveToken(ctx, &mockTokenStore{err: errors.New("locked")}, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoToken)
}
