// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration of the commands service.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "commands_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS instructions (
						id      VARCHAR(36) PRIMARY KEY,
						owner   VARCHAR(36) NOT NULL,
						topic   VARCHAR(254) NOT NULL DEFAULT '',
						params  JSONB NOT NULL DEFAULT '{}',
						state   SMALLINT NOT NULL DEFAULT 0 CHECK (state >= 0),
						message TEXT NOT NULL DEFAULT ''
					);`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS instructions`,
				},
			},
		},
	}
}
