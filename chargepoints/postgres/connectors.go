// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/pkg/postgres"
)

var _ chargepoints.ConnectorRepository = (*connectorRepository)(nil)

type connectorRepository struct {
	db postgres.Database
}

// NewConnectorRepository instantiates a PostgreSQL implementation of
// the connector repository.
func NewConnectorRepository(db postgres.Database) chargepoints.ConnectorRepository {
	return &connectorRepository{db: db}
}

func (repo *connectorRepository) Save(ctx context.Context, conn chargepoints.Connector) error {
	q := `INSERT INTO connectors (charge_point_id, idx, status, error_code, info, vendor_id, vendor_error_code, updated_at)
		VALUES (:charge_point_id, :idx, :status, :error_code, :info, :vendor_id, :vendor_error_code, :updated_at)
		ON CONFLICT (charge_point_id, idx) DO UPDATE SET
			status = :status, error_code = :error_code, info = :info,
			vendor_id = :vendor_id, vendor_error_code = :vendor_error_code, updated_at = :updated_at;`

	if _, err := repo.db.NamedExecContext(ctx, q, toDBConnector(conn)); err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}

	return nil
}

func (repo *connectorRepository) RetrieveByChargePoint(ctx context.Context, chargePointID string) ([]chargepoints.Connector, error) {
	q := `SELECT charge_point_id, idx, status, error_code, info, vendor_id, vendor_error_code, updated_at
		FROM connectors WHERE charge_point_id = :charge_point_id ORDER BY idx;`

	rows, err := repo.db.NamedQueryContext(ctx, q, dbConnector{ChargePointID: chargePointID})
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var items []chargepoints.Connector
	for rows.Next() {
		var item dbConnector
		if err := rows.StructScan(&item); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		items = append(items, toConnector(item))
	}

	return items, nil
}

// Reconcile creates missing connectors in 1..count and removes stored
// connectors outside that range, all within one transaction.
func (repo *connectorRepository) Reconcile(ctx context.Context, chargePointID string, count int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(repoerr.ErrUpdateEntity, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `INSERT INTO connectors (charge_point_id, idx, updated_at)
		SELECT $1, i, $2 FROM generate_series(1, $3) AS i
		ON CONFLICT (charge_point_id, idx) DO NOTHING;`
	if _, err := tx.ExecContext(ctx, insert, chargePointID, time.Now().UTC(), count); err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}

	remove := `DELETE FROM connectors WHERE charge_point_id = $1 AND idx > $2;`
	if _, err := tx.ExecContext(ctx, remove, chargePointID, count); err != nil {
		return postgres.HandleError(repoerr.ErrRemoveEntity, err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(repoerr.ErrUpdateEntity, err)
	}

	return nil
}

type dbConnector struct {
	ChargePointID   string    `db:"charge_point_id"`
	Index           int       `db:"idx"`
	Status          string    `db:"status"`
	ErrorCode       string    `db:"error_code"`
	Info            string    `db:"info"`
	VendorID        string    `db:"vendor_id"`
	VendorErrorCode string    `db:"vendor_error_code"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func toDBConnector(conn chargepoints.Connector) dbConnector {
	return dbConnector{
		ChargePointID:   conn.ChargePointID,
		Index:           conn.Index,
		Status:          string(conn.Status.Status),
		ErrorCode:       string(conn.Status.ErrorCode),
		Info:            conn.Status.Info,
		VendorID:        conn.Status.VendorID,
		VendorErrorCode: conn.Status.VendorErrorCode,
		UpdatedAt:       conn.Status.Timestamp,
	}
}

func toConnector(item dbConnector) chargepoints.Connector {
	return chargepoints.Connector{
		ChargePointID: item.ChargePointID,
		Index:         item.Index,
		Status: chargepoints.ConnectorStatus{
			Status:          ocpp.ChargePointStatus(item.Status),
			ErrorCode:       ocpp.ErrorCode(item.ErrorCode),
			Info:            item.Info,
			VendorID:        item.VendorID,
			VendorErrorCode: item.VendorErrorCode,
			Timestamp:       item.UpdatedAt,
		},
	}
}
