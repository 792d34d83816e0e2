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

package wallet

import (
	"sort"

	"brale-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Aggregate sums balances per value type across all wallets and picks the
// first wallet whose usage is "primary". Values that are missing or do not
// parse as decimals are skipped.
func Aggregate(wallets []models.WalletBalances) models.Aggregate {
	result := models.Aggregate{Totals: make(map[string]decimal.Decimal)}

	for i := range wallets {
		w := wallets[i]

		if w.Address.IsPrimary() {
			result.PrimaryCount++
			if result.Primary == nil {
				primary := w
				result.Primary = &primary
			}
		}

		for _, b := range w.Balances {
			if b.Balance.Value == "" {
				continue
			}
			amount, err := decimal.NewFromString(b.Balance.Value)
			if err != nil {
				zap.L().Debug("Skipping unparsable balance",
					zap.String("address_id", w.Address.Id),
					zap.String("transfer_type", b.TransferType),
					zap.String("value_type", b.ValueType),
					zap.String("value", b.Balance.Value))
				continue
			}
			result.Totals[b.ValueType] = result.Totals[b.ValueType].Add(amount)
		}
	}

	if result.PrimaryCount > 1 {
		zap.L().Warn("Multiple wallets marked primary, using the first",
			zap.Int("primary_count", result.PrimaryCount),
			zap.String("address_id", result.Primary.Address.Id))
	}

	return result
}

// GrandTotal is the sum of all per-value-type totals.
func GrandTotal(totals map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	return sum
}

// Breakdown lists non-zero totals, largest first, ties broken by symbol.
func Breakdown(totals map[string]decimal.Decimal) []models.ValueTypeTotal {
	out := make([]models.ValueTypeTotal, 0, len(totals))
	for valueType, total := range totals {
		if total.IsZero() {
			continue
		}
		out = append(out, models.ValueTypeTotal{ValueType: valueType, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].ValueType < out[j].ValueType
	})
	return out
}
