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
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Authenticate exchanges client credentials for a bearer token using the
// OAuth2 client-credentials grant. It makes exactly one attempt.
func (s *Service) Authenticate(ctx context.Context, clientId, clientSecret string) (string, error) {
	if clientId == "" || clientSecret == "" {
		return "", &AuthenticationError{Reason: "client id and client secret are required"}
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(clientId, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	zap.L().Info("Requesting bearer token", zap.String("auth_url", s.authURL))

	resp, err := s.do(req, "oauth2_token")
	if err != nil {
		zap.L().Error("Token request failed", zap.Error(err))
		return "", fmt.Errorf("unable to request token: %w", err)
	}

	if !resp.ok() {
		zap.L().Warn("Token request rejected",
			zap.Int("status_code", resp.statusCode),
			zap.String("status", resp.status))
		return "", &AuthenticationError{StatusCode: resp.statusCode, Status: resp.status}
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return "", &AuthenticationError{Reason: "malformed token response", Err: err}
	}
	if body.AccessToken == "" {
		return "", &AuthenticationError{Reason: "no token in response"}
	}

	zap.L().Info("Bearer token received",
		zap.String("token_type", body.TokenType),
		zap.Int("expires_in", body.ExpiresIn))

	return body.AccessToken, nil
}
