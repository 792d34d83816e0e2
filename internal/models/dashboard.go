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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletBalances is a custodial address together with its fetched balances
type WalletBalances struct {
	Address     Address        `json:"address"`
	Balances    []BalanceEntry `json:"balances"`
	Unavailable []BalanceKey   `json:"unavailable,omitempty"`
}

// TransferTypeBalances groups a wallet's balances under one transfer type
type TransferTypeBalances struct {
	TransferType string
	Balances     []BalanceEntry
}

// GroupByTransferType groups balances by transfer type in first-seen order
func (w WalletBalances) GroupByTransferType() []TransferTypeBalances {
	var groups []TransferTypeBalances
	index := make(map[string]int)
	for _, b := range w.Balances {
		i, ok := index[b.TransferType]
		if !ok {
			i = len(groups)
			index[b.TransferType] = i
			groups = append(groups, TransferTypeBalances{TransferType: b.TransferType})
		}
		groups[i].Balances = append(groups[i].Balances, b)
	}
	return groups
}

// Aggregate is the result of summing balances across wallets
type Aggregate struct {
	Totals       map[string]decimal.Decimal
	Primary      *WalletBalances
	PrimaryCount int
}

// ValueTypeTotal is one row of the dashboard breakdown
type ValueTypeTotal struct {
	ValueType string          `json:"value_type"`
	Total     decimal.Decimal `json:"total"`
}

// Dashboard is the outcome of a single wallet-view activation
type Dashboard struct {
	SessionId    string                     `json:"session_id"`
	Activation   uint64                     `json:"activation"`
	AccountId    string                     `json:"account_id,omitempty"`
	UsedFallback bool                       `json:"used_fallback"`
	Wallets      []WalletBalances           `json:"wallets"`
	Totals       map[string]decimal.Decimal `json:"totals"`
	Breakdown    []ValueTypeTotal           `json:"breakdown"`
	GrandTotal   decimal.Decimal            `json:"grand_total"`
	Primary      *WalletBalances            `json:"primary,omitempty"`
	PrimaryCount int                        `json:"primary_count"`
	Notice       string                     `json:"notice,omitempty"`
	FetchedAt    time.Time                  `json:"fetched_at"`
}
