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

var _ chargepoints.SettingsRepository = (*settingsRepository)(nil)

type settingsRepository struct {
	db postgres.Database
}

// NewSettingsRepository instantiates a PostgreSQL implementation of the
// publish settings repository.
func NewSettingsRepository(db postgres.Database) chargepoints.SettingsRepository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) Save(ctx context.Context, s chargepoints.Settings) error {
	q := `INSERT INTO publish_settings (owner, charge_point_id, publish, stream, source_id_template)
		VALUES (:owner, :charge_point_id, :publish, :stream, :source_id_template)
		ON CONFLICT (owner, charge_point_id) DO UPDATE SET
			publish = :publish, stream = :stream, source_id_template = :source_id_template;`

	if _, err := repo.db.NamedExecContext(ctx, q, toDBSettings(s)); err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}

	return nil
}

func (repo *settingsRepository) Retrieve(ctx context.Context, chargePointID string) (chargepoints.Settings, error) {
	q := `SELECT owner, charge_point_id, publish, stream, source_id_template
		FROM publish_settings WHERE charge_point_id = :charge_point_id;`

	return repo.retrieve(ctx, q, dbSettings{ChargePointID: chargePointID})
}

func (repo *settingsRepository) RetrieveDefault(ctx context.Context, owner string) (chargepoints.Settings, error) {
	q := `SELECT owner, charge_point_id, publish, stream, source_id_template
		FROM publish_settings WHERE owner = :owner AND charge_point_id = '';`

	return repo.retrieve(ctx, q, dbSettings{Owner: owner})
}

func (repo *settingsRepository) retrieve(ctx context.Context, q string, params dbSettings) (chargepoints.Settings, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return chargepoints.Settings{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return chargepoints.Settings{}, repoerr.ErrNotFound
	}

	var item dbSettings
	if err := rows.StructScan(&item); err != nil {
		return chargepoints.Settings{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return toSettings(item), nil
}

type dbSettings struct {
	Owner            string `db:"owner"`
	ChargePointID    string `db:"charge_point_id"`
	Publish          bool   `db:"publish"`
	Stream           bool   `db:"stream"`
	SourceIDTemplate string `db:"source_id_template"`
}

func toDBSettings(s chargepoints.Settings) dbSettings {
	return dbSettings{
		Owner:            s.Owner,
		ChargePointID:    s.ChargePointID,
		Publish:          s.Publish,
		Stream:           s.Stream,
		SourceIDTemplate: s.SourceIDTemplate,
	}
}

func toSettings(item dbSettings) chargepoints.Settings {
	return chargepoints.Settings{
		Owner:            item.Owner,
		ChargePointID:    item.ChargePointID,
		Publish:          item.Publish,
		Stream:           item.Stream,
		SourceIDTemplate: item.SourceIDTemplate,
	}
}
