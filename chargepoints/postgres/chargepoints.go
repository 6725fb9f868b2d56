// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/pkg/postgres"
)

var _ chargepoints.Repository = (*repository)(nil)

type repository struct {
	db postgres.Database
}

// NewRepository instantiates a PostgreSQL implementation of the charge
// point repository.
func NewRepository(db postgres.Database) chargepoints.Repository {
	return &repository{db: db}
}

func (repo *repository) Save(ctx context.Context, cp chargepoints.ChargePoint) (chargepoints.ChargePoint, error) {
	q := `INSERT INTO charge_points (id, owner, identifier, vendor, model, serial_number, firmware_version, connector_count, registration, enabled, node_id)
		VALUES (:id, :owner, :identifier, :vendor, :model, :serial_number, :firmware_version, :connector_count, :registration, :enabled, :node_id);`

	if _, err := repo.db.NamedExecContext(ctx, q, toDBChargePoint(cp)); err != nil {
		return chargepoints.ChargePoint{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}

	return cp, nil
}

func (repo *repository) RetrieveByIdentity(ctx context.Context, identity chargepoints.Identity) (chargepoints.ChargePoint, error) {
	q := `SELECT id, owner, identifier, vendor, model, serial_number, firmware_version, connector_count, registration, enabled, node_id
		FROM charge_points WHERE owner = :owner AND identifier = :identifier;`

	return repo.retrieve(ctx, q, dbChargePoint{Owner: identity.Owner, Identifier: identity.Identifier})
}

func (repo *repository) RetrieveByID(ctx context.Context, id string) (chargepoints.ChargePoint, error) {
	q := `SELECT id, owner, identifier, vendor, model, serial_number, firmware_version, connector_count, registration, enabled, node_id
		FROM charge_points WHERE id = :id;`

	return repo.retrieve(ctx, q, dbChargePoint{ID: id})
}

func (repo *repository) Update(ctx context.Context, cp chargepoints.ChargePoint) error {
	q := `UPDATE charge_points SET vendor = :vendor, model = :model, serial_number = :serial_number,
		firmware_version = :firmware_version, connector_count = :connector_count, registration = :registration,
		enabled = :enabled, node_id = :node_id
		WHERE id = :id;`

	res, err := repo.db.NamedExecContext(ctx, q, toDBChargePoint(cp))
	if err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func (repo *repository) retrieve(ctx context.Context, q string, params dbChargePoint) (chargepoints.ChargePoint, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return chargepoints.ChargePoint{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return chargepoints.ChargePoint{}, repoerr.ErrNotFound
	}

	var item dbChargePoint
	if err := rows.StructScan(&item); err != nil {
		return chargepoints.ChargePoint{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return toChargePoint(item), nil
}

type dbChargePoint struct {
	ID              string `db:"id"`
	Owner           string `db:"owner"`
	Identifier      string `db:"identifier"`
	Vendor          string `db:"vendor"`
	Model           string `db:"model"`
	SerialNumber    string `db:"serial_number"`
	FirmwareVersion string `db:"firmware_version"`
	ConnectorCount  int    `db:"connector_count"`
	Registration    uint8  `db:"registration"`
	Enabled         bool   `db:"enabled"`
	NodeID          int64  `db:"node_id"`
}

func toDBChargePoint(cp chargepoints.ChargePoint) dbChargePoint {
	return dbChargePoint{
		ID:              cp.ID,
		Owner:           cp.Owner,
		Identifier:      cp.Identifier,
		Vendor:          cp.Info.Vendor,
		Model:           cp.Info.Model,
		SerialNumber:    cp.Info.SerialNumber,
		FirmwareVersion: cp.Info.FirmwareVersion,
		ConnectorCount:  cp.ConnectorCount,
		Registration:    uint8(cp.Registration),
		Enabled:         cp.Enabled,
		NodeID:          cp.NodeID,
	}
}

func toChargePoint(item dbChargePoint) chargepoints.ChargePoint {
	return chargepoints.ChargePoint{
		ID:         item.ID,
		Owner:      item.Owner,
		Identifier: item.Identifier,
		Info: chargepoints.Info{
			Vendor:          item.Vendor,
			Model:           item.Model,
			SerialNumber:    item.SerialNumber,
			FirmwareVersion: item.FirmwareVersion,
		},
		ConnectorCount: item.ConnectorCount,
		Registration:   chargepoints.RegistrationStatus(item.Registration),
		Enabled:        item.Enabled,
		NodeID:         item.NodeID,
	}
}
