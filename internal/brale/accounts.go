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
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Identifier field names, in the order they are checked on any object.
var accountIdFields = []string{"id", "account_id", "accountId"}

// accountShape is one accepted location of an account identifier in a response body.
type accountShape struct {
	source  string
	extract func(obj map[string]jsoniter.RawMessage, body []byte) (string, bool)
}

// accountsShapes lists the /accounts decoding branches in priority order.
// The first branch that yields an identifier wins; later candidates are ignored.
var accountsShapes = []accountShape{
	{"id", objectField("id")},
	{"account_id", objectField("account_id")},
	{"accountId", objectField("accountId")},
	{"[0]", func(_ map[string]jsoniter.RawMessage, body []byte) (string, bool) {
		return firstElementId(body)
	}},
	{"accounts[0]", listField("accounts")},
	{"data[0]", listField("data")},
	{"data", nestedObjectField("data")},
}

// meShapes lists the /me decoding branches in priority order.
var meShapes = []accountShape{
	{"account_id", objectField("account_id")},
	{"id", objectField("id")},
}

// ResolveAccountId discovers the caller's account identifier by querying
// /accounts and then /me. Lookup failures are logged and treated as "nothing
// found"; the second return value is false when neither lookup yields an id.
func (s *Service) ResolveAccountId(ctx context.Context, token string) (string, bool) {
	log := logger(ctx)

	if id, ok := s.lookupAccount(ctx, token, "accounts", "/accounts", accountsShapes); ok {
		return id, true
	}

	log.Info("Trying alternative endpoint for account id", zap.String("endpoint", "/me"))
	if id, ok := s.lookupAccount(ctx, token, "me", "/me", meShapes); ok {
		return id, true
	}

	log.Warn("Could not determine account id")
	return "", false
}

func (s *Service) lookupAccount(ctx context.Context, token, endpoint, path string, shapes []accountShape) (string, bool) {
	log := logger(ctx).With(zap.String("endpoint", path))

	resp, err := s.get(ctx, endpoint, token, path, nil)
	if err != nil {
		log.Warn("Account lookup failed", zap.Error(err))
		return "", false
	}
	if !resp.ok() {
		log.Warn("Account lookup returned non-success status",
			zap.Int("status_code", resp.statusCode),
			zap.String("status", resp.status))
		return "", false
	}

	id, source, ok := decodeAccountId(resp.body, shapes)
	if !ok {
		log.Warn("Account id not found in any expected location", zap.ByteString("body", truncate(resp.body, 512)))
		return "", false
	}

	log.Info("Using account id", zap.String("account_id", id), zap.String("source", source))
	return id, true
}

// decodeAccountId applies shapes in order and reports which one matched.
func decodeAccountId(body []byte, shapes []accountShape) (string, string, bool) {
	var obj map[string]jsoniter.RawMessage
	if isJSONObject(body) {
		if err := json.Unmarshal(body, &obj); err != nil {
			obj = nil
		}
	}

	for _, shape := range shapes {
		if id, ok := shape.extract(obj, body); ok {
			return id, shape.source, true
		}
	}
	return "", "", false
}

func objectField(name string) func(map[string]jsoniter.RawMessage, []byte) (string, bool) {
	return func(obj map[string]jsoniter.RawMessage, _ []byte) (string, bool) {
		if obj == nil {
			return "", false
		}
		return identifier(obj[name])
	}
}

func listField(name string) func(map[string]jsoniter.RawMessage, []byte) (string, bool) {
	return func(obj map[string]jsoniter.RawMessage, _ []byte) (string, bool) {
		if obj == nil {
			return "", false
		}
		return firstElementId(obj[name])
	}
}

func nestedObjectField(name string) func(map[string]jsoniter.RawMessage, []byte) (string, bool) {
	return func(obj map[string]jsoniter.RawMessage, _ []byte) (string, bool) {
		if obj == nil || !isJSONObject(obj[name]) {
			return "", false
		}
		return idFromObject(obj[name])
	}
}

// firstElementId reads the first element of a JSON list, which may be a
// bare identifier string or an object carrying one of accountIdFields.
func firstElementId(raw []byte) (string, bool) {
	if !isJSONList(raw) {
		return "", false
	}
	var list []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return "", false
	}

	first := bytes.TrimSpace(list[0])
	if len(first) > 0 && first[0] == '"' {
		return identifier(first)
	}
	if isJSONObject(first) {
		return idFromObject(first)
	}
	return "", false
}

func idFromObject(raw []byte) (string, bool) {
	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, field := range accountIdFields {
		if id, ok := identifier(obj[field]); ok {
			return id, true
		}
	}
	return "", false
}

// identifier accepts a non-empty JSON string or a JSON number (kept in its literal form).
func identifier(raw []byte) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	}
	if _, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return string(raw), true
	}
	return "", false
}

func isJSONObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isJSONList(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
