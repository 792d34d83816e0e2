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

const schema = `
	-- Bearer tokens keyed by a fixed name
	CREATE TABLE IF NOT EXISTS tokens (
		name TEXT PRIMARY KEY,
		token TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One row per completed dashboard load
	CREATE TABLE IF NOT EXISTS dashboard_loads (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		activation INTEGER NOT NULL,
		account_id TEXT NOT NULL DEFAULT '',
		used_fallback BOOLEAN NOT NULL DEFAULT 0,
		wallet_count INTEGER NOT NULL,
		unavailable INTEGER NOT NULL,
		grand_total TEXT NOT NULL,
		notice TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	);

	-- Create index for history ordering
	CREATE INDEX IF NOT EXISTS idx_dashboard_loads_fetched_at ON dashboard_loads(fetched_at);
`

const (
	// Token queries
	queryUpsertToken = `
		INSERT INTO tokens (name, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`

	queryGetToken = `
		SELECT name, token, updated_at
		FROM tokens
		WHERE name = ?`

	queryDeleteToken = `
		DELETE FROM tokens WHERE name = ?`

	// Load history queries
	queryInsertLoad = `
		INSERT INTO dashboard_loads
			(id, session_id, activation, account_id, used_fallback, wallet_count, unavailable, grand_total, notice, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetLoadHistory = `
		SELECT id, session_id, activation, account_id, used_fallback, wallet_count, unavailable, grand_total, notice, fetched_at
		FROM dashboard_loads
		ORDER BY fetched_at DESC, activation DESC
		LIMIT ? OFFSET ?`
)
