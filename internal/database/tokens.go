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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brale-dashboard-go/internal/models"
	"brale-dashboard-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) SaveToken(ctx context.Context, name, token string) error {
	if name == "" {
		return fmt.Errorf("token name cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	updatedAt := time.Now().UTC().Format(timestampLayout)
	if _, err := s.db.ExecContext(ctx, queryUpsertToken, name, token, updatedAt); err != nil {
		zap.L().Error("Failed to store token", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("unable to store token: %w", err)
	}

	zap.L().Info("Token stored", zap.String("name", name))
	return nil
}

func (s *Service) GetToken(ctx context.Context, name string) (*models.StoredToken, error) {
	zap.L().Debug("Querying token", zap.String("name", name))

	var token models.StoredToken
	var updatedAt string
	err := s.db.QueryRowContext(ctx, queryGetToken, name).Scan(&token.Name, &token.Token, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		zap.L().Error("Failed to query token", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("unable to query token: %w", err)
	}

	token.UpdatedAt, err = time.Parse(timestampLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token timestamp '%s': %w", updatedAt, err)
	}

	return &token, nil
}

func (s *Service) DeleteToken(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, queryDeleteToken, name)
	if err != nil {
		return fmt.Errorf("unable to delete token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTokenNotFound
	}

	zap.L().Info("Token deleted", zap.String("name", name))
	return nil
}
