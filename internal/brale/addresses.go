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

package brale

import (
	"context"
	"fmt"
	"net/url"

	"brale-dashboard-go/internal/models"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// ListWallets returns the internal (custodial) addresses for the account.
// With an empty accountId it falls back to the global /addresses endpoint and
// reports usedFallback. An empty filtered list yields *NoCustodialWalletsError.
func (s *Service) ListWallets(ctx context.Context, token, accountId string) ([]models.Address, bool, error) {
	log := logger(ctx)

	path := "/addresses"
	endpoint := "addresses"
	usedFallback := accountId == ""
	if !usedFallback {
		path = fmt.Sprintf("/accounts/%s/addresses", url.PathEscape(accountId))
		endpoint = "account_addresses"
	} else {
		log.Warn("No account id, falling back to global addresses endpoint")
	}

	resp, err := s.get(ctx, endpoint, token, path, nil)
	if err != nil {
		return nil, usedFallback, fmt.Errorf("unable to list addresses: %w", err)
	}
	if !resp.ok() {
		return nil, usedFallback, &FetchError{Resource: "addresses", StatusCode: resp.statusCode, Status: resp.status}
	}

	addresses, err := decodeAddresses(resp.body)
	if err != nil {
		return nil, usedFallback, err
	}

	types, counts := countTypes(addresses)
	log.Info("Addresses received",
		zap.String("account_id", accountId),
		zap.Int("total", len(addresses)),
		zap.Strings("type_counts", sortedTypeCounts(counts)))

	wallets := make([]models.Address, 0, len(addresses))
	for _, a := range addresses {
		if a.IsCustodial() {
			wallets = append(wallets, a)
		}
	}

	if len(wallets) == 0 {
		return nil, usedFallback, newNoCustodialWalletsError(accountId, types, counts)
	}

	log.Info("Custodial wallets found", zap.Int("count", len(wallets)))
	return wallets, usedFallback, nil
}

// decodeAddresses accepts a bare list, {"data": [...]} or {"addresses": [...]}, in that order.
func decodeAddresses(body []byte) ([]models.Address, error) {
	if isJSONList(body) {
		var list []models.Address
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, &ResponseFormatError{Resource: "addresses", Err: err}
		}
		return list, nil
	}

	if !isJSONObject(body) {
		return nil, &ResponseFormatError{Resource: "addresses"}
	}

	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &ResponseFormatError{Resource: "addresses", Err: err}
	}

	for _, field := range []string{"data", "addresses"} {
		raw, ok := obj[field]
		if !ok || !isJSONList(raw) {
			continue
		}
		var list []models.Address
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, &ResponseFormatError{Resource: "addresses", Err: err}
		}
		return list, nil
	}

	return nil, &ResponseFormatError{Resource: "addresses"}
}

// countTypes returns the distinct address types in first-seen order and a count per type.
func countTypes(addresses []models.Address) ([]string, map[string]int) {
	var types []string
	counts := make(map[string]int)
	for _, a := range addresses {
		if _, seen := counts[a.Type]; !seen {
			types = append(types, a.Type)
		}
		counts[a.Type]++
	}
	return types, counts
}
