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
	"bytes"
	"context"
	"fmt"
	"net/url"

	"brale-dashboard-go/internal/metrics"
	"brale-dashboard-go/internal/models"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type balanceResponse struct {
	Balance *struct {
		Value jsoniter.RawMessage `json:"value"`
	} `json:"balance"`
}

type balanceOutcome struct {
	entry models.BalanceEntry
	ok    bool
}

// FetchBalances looks up the balance of every (transfer type, value type)
// combination for the address. Each combination is requested once; failures
// are logged and reported in Unavailable rather than as zero balances.
// Entries are ordered by the address's transfer types, then catalog order.
func (s *Service) FetchBalances(ctx context.Context, token, accountId string, address models.Address) models.BalanceResult {
	log := logger(ctx).With(zap.String("account_id", accountId), zap.String("address_id", address.Id))

	keys := make([]models.BalanceKey, 0, len(address.TransferTypes)*len(s.valueTypes))
	for _, transferType := range address.TransferTypes {
		for _, valueType := range s.valueTypes {
			keys = append(keys, models.BalanceKey{TransferType: transferType, ValueType: valueType})
		}
	}

	log.Debug("Fetching balances", zap.Int("lookups", len(keys)))

	outcomes := make([]balanceOutcome, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			entry, err := s.fetchBalance(gctx, token, accountId, address.Id, key)
			if err != nil {
				log.Debug("Balance unavailable",
					zap.String("transfer_type", key.TransferType),
					zap.String("value_type", key.ValueType),
					zap.Error(err))
				metrics.BalanceLookups.WithLabelValues("unavailable").Inc()
				return nil
			}
			metrics.BalanceLookups.WithLabelValues("answered").Inc()
			outcomes[i] = balanceOutcome{entry: entry, ok: true}
			return nil
		})
	}
	_ = g.Wait()

	var result models.BalanceResult
	for i, outcome := range outcomes {
		if outcome.ok {
			result.Entries = append(result.Entries, outcome.entry)
		} else {
			result.Unavailable = append(result.Unavailable, keys[i])
		}
	}

	log.Info("Balances fetched",
		zap.Int("answered", len(result.Entries)),
		zap.Int("unavailable", len(result.Unavailable)))

	return result
}

func (s *Service) fetchBalance(ctx context.Context, token, accountId, addressId string, key models.BalanceKey) (models.BalanceEntry, error) {
	path := fmt.Sprintf("/accounts/%s/addresses/%s/balance", url.PathEscape(accountId), url.PathEscape(addressId))
	query := url.Values{}
	query.Set("transfer_type", key.TransferType)
	query.Set("value_type", key.ValueType)

	resp, err := s.get(ctx, "balance", token, path, query)
	if err != nil {
		return models.BalanceEntry{}, err
	}
	if !resp.ok() {
		return models.BalanceEntry{}, &FetchError{Resource: "balance", StatusCode: resp.statusCode, Status: resp.status}
	}

	var body balanceResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return models.BalanceEntry{}, &ResponseFormatError{Resource: "balance", Err: err}
	}

	// The requested pair is authoritative even if the body echoes something else.
	entry := models.BalanceEntry{TransferType: key.TransferType, ValueType: key.ValueType}
	if body.Balance != nil {
		entry.Balance.Value = amountText(body.Balance.Value)
	}
	return entry, nil
}

// amountText returns a JSON string's contents or a JSON number's literal text.
func amountText(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}
