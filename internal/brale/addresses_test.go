package brale

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"brale-dashboard-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedAddresses = `[
	{"id":"a1","type":"internal","usage":"primary","transfer_types":["base"],"address":"0xaaa"},
	{"id":"a2","type":"externally-owned","transfer_types":["ethereum"]},
	{"id":"a3","type":"internal","transfer_types":["polygon","solana"],"wallet_address":"0xccc"}
]`

func TestListWallets(t *testing.T) {
	tests := []struct {
		name         string
		accountId    string
		expectedPath string
		status       int
		body         string
		assert       func(t *testing.T, wallets []models.Address, usedFallback bool, err error)
	}{
		{
			name:         "bare_list_filters_internal",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusOK,
			body:         mixedAddresses,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				require.NoError(t, err)
				assert.False(t, usedFallback)
				require.Len(t, wallets, 2)
				assert.Equal(t, "a1", wallets[0].Id)
				assert.Equal(t, "a3", wallets[1].Id)
				assert.Equal(t, []string{"polygon", "solana"}, wallets[1].TransferTypes)
			},
		},
		{
			name:         "data_wrapper",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusOK,
			body:         `{"data":` + mixedAddresses + `}`,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				require.NoError(t, err)
				assert.Len(t, wallets, 2)
			},
		},
		{
			name:         "addresses_wrapper",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusOK,
			body:         `{"addresses":` + mixedAddresses + `}`,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				require.NoError(t, err)
				assert.Len(t, wallets, 2)
			},
		},
		{
			name:         "global_fallback_still_filters",
			accountId:    "",
			expectedPath: "/addresses",
			status:       http.StatusOK,
			body:         mixedAddresses,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				require.NoError(t, err)
				assert.True(t, usedFallback)
				require.Len(t, wallets, 2)
				for _, w := range wallets {
					assert.Equal(t, models.AddressTypeInternal, w.Type)
				}
			},
		},
		{
			name:         "unexpected_shape",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusOK,
			body:         `{"items":[]}`,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				var formatErr *ResponseFormatError
				assert.True(t, errors.As(err, &formatErr))
				assert.Nil(t, wallets)
			},
		},
		{
			name:         "non_success_status",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusForbidden,
			body:         `{}`,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				var fetchErr *FetchError
				require.True(t, errors.As(err, &fetchErr))
				assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
				assert.Contains(t, err.Error(), "403 Forbidden")
			},
		},
		{
			name:         "no_internal_addresses",
			accountId:    "acc-1",
			expectedPath: "/accounts/acc-1/addresses",
			status:       http.StatusOK,
			body:         `[{"id":"x","type":"externally-owned"},{"id":"y","type":"externally-owned"},{"id":"z","type":"contract"}]`,
			assert: func(t *testing.T, wallets []models.Address, usedFallback bool, err error) {
				var noWallets *NoCustodialWalletsError
				require.True(t, errors.As(err, &noWallets))
				assert.Equal(t, "acc-1", noWallets.AccountId)
				assert.Equal(t, 3, noWallets.Total)
				assert.Equal(t, []string{"externally-owned", "contract"}, noWallets.Types)
				assert.Equal(t, 2, noWallets.TypeCounts["externally-owned"])
				assert.Contains(t, err.Error(), "acc-1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tt.expectedPath, r.URL.Path)
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			svc := newTestService(t, server, "SBC")
			wallets, usedFallback, err := svc.ListWallets(context.Background(), "tok", tt.accountId)

			tt.assert(t, wallets, usedFallback, err)
		})
	}
}
