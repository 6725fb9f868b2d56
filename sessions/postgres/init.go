// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration of the sessions service. The partial unique index on
// (charge_point_id, connector_id) for rows without an end time enforces
// the single-active-session-per-connector invariant in the store.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "sessions_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS auth_tokens (
						owner     VARCHAR(36) NOT NULL,
						token     VARCHAR(254) NOT NULL CHECK (length(token) > 0),
						enabled   BOOLEAN NOT NULL DEFAULT true,
						expiry    TIMESTAMPTZ,
						parent_id VARCHAR(254) NOT NULL DEFAULT '',
						PRIMARY KEY (owner, token)
					);`,
					`CREATE TABLE IF NOT EXISTS sessions (
						id              VARCHAR(36) PRIMARY KEY,
						charge_point_id VARCHAR(36) NOT NULL,
						connector_id    INT NOT NULL CHECK (connector_id >= 0),
						token           VARCHAR(254) NOT NULL,
						transaction_id  BIGINT GENERATED ALWAYS AS IDENTITY,
						started         TIMESTAMPTZ NOT NULL,
						ended           TIMESTAMPTZ,
						end_reason      VARCHAR(254) NOT NULL DEFAULT '',
						end_token       VARCHAR(254) NOT NULL DEFAULT '',
						posted          TIMESTAMPTZ,
						FOREIGN KEY (charge_point_id) REFERENCES charge_points (id)
					);`,
					`CREATE UNIQUE INDEX IF NOT EXISTS sessions_active_connector_idx
						ON sessions (charge_point_id, connector_id) WHERE ended IS NULL;`,
					`CREATE UNIQUE INDEX IF NOT EXISTS sessions_transaction_idx
						ON sessions (charge_point_id, transaction_id);`,
					`CREATE TABLE IF NOT EXISTS readings (
						session_id VARCHAR(36),
						context    VARCHAR(32) NOT NULL DEFAULT '',
						time       TIMESTAMPTZ NOT NULL,
						measurand  VARCHAR(64) NOT NULL DEFAULT '',
						phase      VARCHAR(8) NOT NULL DEFAULT '',
						location   VARCHAR(32) NOT NULL DEFAULT '',
						unit       VARCHAR(32) NOT NULL DEFAULT '',
						value      VARCHAR(64) NOT NULL,
						FOREIGN KEY (session_id) REFERENCES sessions (id) ON DELETE CASCADE
					);`,
					`CREATE INDEX IF NOT EXISTS readings_session_idx ON readings (session_id);`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS readings`,
					`DROP TABLE IF EXISTS sessions`,
					`DROP TABLE IF EXISTS auth_tokens`,
				},
			},
		},
	}
}
