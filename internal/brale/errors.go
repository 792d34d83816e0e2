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
	"fmt"
	"sort"
	"strings"
)

// AuthenticationError is returned when the token exchange is rejected or its response is unusable.
type AuthenticationError struct {
	StatusCode int
	Status     string
	Reason     string
	Err        error
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: %d %s", e.StatusCode, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// FetchError is returned when a resource call answers with a non-success status.
type FetchError struct {
	Resource   string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d %s", e.Resource, e.StatusCode, e.Status)
}

// ResponseFormatError is returned when a response body matches none of the accepted shapes.
type ResponseFormatError struct {
	Resource string
	Err      error
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response format from %s API: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("invalid response format from %s API", e.Resource)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// NoCustodialWalletsError means the address list held no internal addresses.
// Callers render it as an empty state rather than a failure.
type NoCustodialWalletsError struct {
	AccountId  string
	Total      int
	Types      []string
	TypeCounts map[string]int
}

func newNoCustodialWalletsError(accountId string, types []string, counts map[string]int) *NoCustodialWalletsError {
	total := 0
	for _, n := range counts {
		total += n
	}
	return &NoCustodialWalletsError{
		AccountId:  accountId,
		Total:      total,
		Types:      types,
		TypeCounts: counts,
	}
}

func (e *NoCustodialWalletsError) Error() string {
	types := "none"
	if len(e.Types) > 0 {
		types = strings.Join(e.Types, ", ")
	}
	if e.AccountId != "" {
		return fmt.Sprintf("no custodial wallets found for account %s: found %d total addresses, address types found: %s",
			e.AccountId, e.Total, types)
	}
	return fmt.Sprintf("no internal custodial wallets found: found %d total addresses, but none are type %q, address types found: %s",
		e.Total, "internal", types)
}

// sortedTypeCounts renders type counts deterministically for logging.
func sortedTypeCounts(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for t, n := range counts {
		out = append(out, fmt.Sprintf("%s=%d", t, n))
	}
	sort.Strings(out)
	return out
}
