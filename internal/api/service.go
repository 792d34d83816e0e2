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

package api

import (
	"context"
	"fmt"

	"brale-dashboard-go/internal/models"
	"brale-dashboard-go/internal/store"
)

// Authenticator exchanges client credentials for a bearer token
type Authenticator interface {
	Authenticate(ctx context.Context, clientId, clientSecret string) (string, error)
}

// DashboardLoader runs one wallet-view activation
type DashboardLoader interface {
	Load(ctx context.Context, view, token string) (*models.Dashboard, error)
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service holds the dependencies behind the HTTP handlers
type Service struct {
	auth      Authenticator
	dashboard DashboardLoader
	tokens    store.TokenStore
	history   store.HistoryStore
	db        Pinger
}

func NewService(auth Authenticator, dashboard DashboardLoader, tokens store.TokenStore, history store.HistoryStore, db Pinger) *Service {
	return &Service{
		auth:      auth,
		dashboard: dashboard,
		tokens:    tokens,
		history:   history,
		db:        db,
	}
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
