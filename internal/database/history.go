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
	"fmt"
	"time"

	"brale-dashboard-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecordLoad stores a summary of a completed dashboard load. A missing Id is generated.
func (s *Service) RecordLoad(ctx context.Context, record models.LoadRecord) error {
	if record.Id == "" {
		record.Id = uuid.New().String()
	}
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, queryInsertLoad,
		record.Id,
		record.SessionId,
		int64(record.Activation),
		record.AccountId,
		record.UsedFallback,
		record.WalletCount,
		record.Unavailable,
		record.GrandTotal.String(),
		record.Notice,
		record.FetchedAt.UTC().Format(timestampLayout))
	if err != nil {
		zap.L().Error("Failed to record dashboard load", zap.String("session_id", record.SessionId), zap.Error(err))
		return fmt.Errorf("unable to record dashboard load: %w", err)
	}

	zap.L().Debug("Dashboard load recorded",
		zap.String("id", record.Id),
		zap.String("session_id", record.SessionId),
		zap.Uint64("activation", record.Activation))
	return nil
}

// GetLoadHistory returns recorded loads, most recent first
func (s *Service) GetLoadHistory(ctx context.Context, limit, offset int) ([]models.LoadRecord, error) {
	zap.L().Debug("Getting load history", zap.Int("limit", limit), zap.Int("offset", offset))

	rows, err := s.db.QueryContext(ctx, queryGetLoadHistory, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get load history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var records []models.LoadRecord
	for rows.Next() {
		var record models.LoadRecord
		var activation int64
		var grandTotalStr, fetchedAtStr string
		err := rows.Scan(&record.Id, &record.SessionId, &activation, &record.AccountId,
			&record.UsedFallback, &record.WalletCount, &record.Unavailable,
			&grandTotalStr, &record.Notice, &fetchedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load record: %w", err)
		}
		record.Activation = uint64(activation)

		record.GrandTotal, err = decimal.NewFromString(grandTotalStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse grand total '%s': %w", grandTotalStr, err)
		}

		record.FetchedAt, err = time.Parse(timestampLayout, fetchedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at '%s': %w", fetchedAtStr, err)
		}

		records = append(records, record)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during load history iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating load history rows: %w", err)
	}

	return records, nil
}
