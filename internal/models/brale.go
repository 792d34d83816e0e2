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
	"strings"
)

const (
	AddressTypeInternal        = "internal"
	AddressTypeExternallyOwned = "externally-owned"
	AddressUsagePrimary        = "primary"
)

// Address is a Brale address record. Only internal addresses are custodial wallets.
type Address struct {
	Id                string   `json:"id"`
	Type              string   `json:"type"`
	Usage             string   `json:"usage,omitempty"`
	TransferTypes     []string `json:"transfer_types,omitempty"`
	Description       string   `json:"description,omitempty"`
	Network           string   `json:"network,omitempty"`
	Address           string   `json:"address,omitempty"`
	WalletAddress     string   `json:"wallet_address,omitempty"`
	BlockchainAddress string   `json:"blockchain_address,omitempty"`
	PublicAddress     string   `json:"public_address,omitempty"`
}

func (a Address) IsCustodial() bool {
	return a.Type == AddressTypeInternal
}

func (a Address) IsPrimary() bool {
	return a.Usage == AddressUsagePrimary
}

// DisplayAddress returns the first populated on-chain address field, or "" if none.
func (a Address) DisplayAddress() string {
	for _, candidate := range []string{a.Address, a.WalletAddress, a.BlockchainAddress, a.PublicAddress} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Networks renders transfer types for display ("base_sepolia" -> "Base sepolia"),
// falling back to the network field.
func (a Address) Networks() string {
	if len(a.TransferTypes) == 0 {
		return a.Network
	}
	names := make([]string, len(a.TransferTypes))
	for i, t := range a.TransferTypes {
		names[i] = FormatTransferType(t)
	}
	return strings.Join(names, ", ")
}

// FormatTransferType capitalizes the first letter, lowercases the rest and replaces underscores.
func FormatTransferType(transferType string) string {
	if transferType == "" {
		return ""
	}
	rest := strings.ReplaceAll(strings.ToLower(transferType[1:]), "_", " ")
	return strings.ToUpper(transferType[:1]) + rest
}

// BalanceAmount is the balance object returned by the balance endpoint
type BalanceAmount struct {
	Value string `json:"value"`
}

// BalanceEntry is one answered (transfer_type, value_type) balance lookup
type BalanceEntry struct {
	TransferType string        `json:"transfer_type"`
	ValueType    string        `json:"value_type"`
	Balance      BalanceAmount `json:"balance"`
}

// BalanceKey identifies a single balance lookup
type BalanceKey struct {
	TransferType string `json:"transfer_type"`
	ValueType    string `json:"value_type"`
}

// BalanceResult separates answered lookups from lookups whose outcome is unknown.
// An unavailable key is not a zero balance.
type BalanceResult struct {
	Entries     []BalanceEntry
	Unavailable []BalanceKey
}
