// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration of the charge points service.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "charge_points_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS charge_points (
						id               VARCHAR(36) PRIMARY KEY,
						owner            VARCHAR(36) NOT NULL,
						identifier       VARCHAR(254) NOT NULL CHECK (length(identifier) > 0),
						vendor           VARCHAR(254) NOT NULL DEFAULT '',
						model            VARCHAR(254) NOT NULL DEFAULT '',
						serial_number    VARCHAR(254) NOT NULL DEFAULT '',
						firmware_version VARCHAR(254) NOT NULL DEFAULT '',
						connector_count  INT NOT NULL DEFAULT 0 CHECK (connector_count >= 0),
						registration     SMALLINT NOT NULL DEFAULT 0 CHECK (registration >= 0),
						enabled          BOOLEAN NOT NULL DEFAULT false,
						node_id          BIGINT NOT NULL DEFAULT 0,
						CONSTRAINT charge_points_identity_unique UNIQUE (owner, identifier)
					);`,
					`CREATE TABLE IF NOT EXISTS connectors (
						charge_point_id   VARCHAR(36) NOT NULL,
						idx               INT NOT NULL CHECK (idx >= 1),
						status            VARCHAR(32) NOT NULL DEFAULT 'Available',
						error_code        VARCHAR(32) NOT NULL DEFAULT 'NoError',
						info              TEXT NOT NULL DEFAULT '',
						vendor_id         VARCHAR(254) NOT NULL DEFAULT '',
						vendor_error_code VARCHAR(254) NOT NULL DEFAULT '',
						updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
						PRIMARY KEY (charge_point_id, idx),
						FOREIGN KEY (charge_point_id) REFERENCES charge_points (id) ON DELETE CASCADE
					);`,
					`CREATE TABLE IF NOT EXISTS publish_settings (
						owner              VARCHAR(36) NOT NULL,
						charge_point_id    VARCHAR(36) NOT NULL DEFAULT '',
						publish            BOOLEAN NOT NULL DEFAULT true,
						stream             BOOLEAN NOT NULL DEFAULT false,
						source_id_template TEXT NOT NULL DEFAULT '',
						PRIMARY KEY (owner, charge_point_id)
					);`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS publish_settings`,
					`DROP TABLE IF EXISTS connectors`,
					`DROP TABLE IF EXISTS charge_points`,
				},
			},
		},
	}
}
