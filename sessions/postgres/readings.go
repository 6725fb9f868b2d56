// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/pkg/postgres"
	"github.com/absmach/csms/sessions"
)

var _ sessions.ReadingRepository = (*readingRepository)(nil)

type readingRepository struct {
	db postgres.Database
}

// NewReadingRepository instantiates a PostgreSQL implementation of the
// reading repository.
func NewReadingRepository(db postgres.Database) sessions.ReadingRepository {
	return &readingRepository{db: db}
}

func (repo *readingRepository) Save(ctx context.Context, readings []sessions.Reading) error {
	q := `INSERT INTO readings (session_id, context, time, measurand, phase, location, unit, value)
		VALUES (:session_id, :context, :time, :measurand, :phase, :location, :unit, :value);`

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return postgres.HandleError(repoerr.ErrCreateEntity, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, r := range readings {
		if _, err := tx.NamedExecContext(ctx, q, toDBReading(r)); err != nil {
			return postgres.HandleError(repoerr.ErrCreateEntity, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return postgres.HandleError(repoerr.ErrCreateEntity, err)
	}

	return nil
}

func (repo *readingRepository) RetrieveBySession(ctx context.Context, sessionID string) ([]sessions.Reading, error) {
	q := `SELECT session_id, context, time, measurand, phase, location, unit, value
		FROM readings WHERE session_id = :session_id ORDER BY time;`

	rows, err := repo.db.NamedQueryContext(ctx, q, dbReading{SessionID: toNullString(sessionID)})
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var items []sessions.Reading
	for rows.Next() {
		var item dbReading
		if err := rows.StructScan(&item); err != nil {
			return nil, errors.Wrap(repoerr.ErrViewEntity, err)
		}
		items = append(items, toReading(item))
	}

	return items, nil
}

type dbReading struct {
	SessionID sql.NullString `db:"session_id"`
	Context   string         `db:"context"`
	Time      time.Time      `db:"time"`
	Measurand string         `db:"measurand"`
	Phase     string         `db:"phase"`
	Location  string         `db:"location"`
	Unit      string         `db:"unit"`
	Value     string         `db:"value"`
}

func toDBReading(r sessions.Reading) dbReading {
	return dbReading{
		SessionID: toNullString(r.SessionID),
		Context:   string(r.Context),
		Time:      r.Timestamp,
		Measurand: string(r.Measurand),
		Phase:     string(r.Phase),
		Location:  string(r.Location),
		Unit:      string(r.Unit),
		Value:     r.Value,
	}
}

func toReading(item dbReading) sessions.Reading {
	return sessions.Reading{
		SessionID: item.SessionID.String,
		Context:   ocpp.ReadingContext(item.Context),
		Timestamp: item.Time,
		Measurand: ocpp.Measurand(item.Measurand),
		Phase:     ocpp.Phase(item.Phase),
		Location:  ocpp.Location(item.Location),
		Unit:      ocpp.Unit(item.Unit),
		Value:     item.Value,
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
