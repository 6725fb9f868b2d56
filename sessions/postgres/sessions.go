// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"time"

	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/pkg/postgres"
	"github.com/absmach/csms/sessions"
)

var _ sessions.Repository = (*repository)(nil)

type repository struct {
	db postgres.Database
}

// NewRepository instantiates a PostgreSQL implementation of the session
// repository. The active-session invariant is enforced by a partial
// unique index, so a concurrent start surfaces as ErrConflict.
func NewRepository(db postgres.Database) sessions.Repository {
	return &repository{db: db}
}

func (repo *repository) Save(ctx context.Context, session sessions.Session) (sessions.Session, error) {
	q := `INSERT INTO sessions (id, charge_point_id, connector_id, token, started)
		VALUES (:id, :charge_point_id, :connector_id, :token, :started)
		RETURNING id, charge_point_id, connector_id, token, transaction_id, started, ended, end_reason, end_token, posted;`

	rows, err := repo.db.NamedQueryContext(ctx, q, toDBSession(session))
	if err != nil {
		return sessions.Session{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return sessions.Session{}, repoerr.ErrCreateEntity
	}
	var item dbSession
	if err := rows.StructScan(&item); err != nil {
		return sessions.Session{}, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return toSession(item), nil
}

func (repo *repository) RetrieveByID(ctx context.Context, id string) (sessions.Session, error) {
	q := `SELECT id, charge_point_id, connector_id, token, transaction_id, started, ended, end_reason, end_token, posted
		FROM sessions WHERE id = :id;`

	return repo.retrieve(ctx, q, dbSession{ID: id})
}

func (repo *repository) RetrieveActive(ctx context.Context, chargePointID string, connectorID int) (sessions.Session, error) {
	q := `SELECT id, charge_point_id, connector_id, token, transaction_id, started, ended, end_reason, end_token, posted
		FROM sessions WHERE charge_point_id = :charge_point_id AND connector_id = :connector_id AND ended IS NULL;`

	return repo.retrieve(ctx, q, dbSession{ChargePointID: chargePointID, ConnectorID: connectorID})
}

func (repo *repository) RetrieveByTransaction(ctx context.Context, chargePointID string, transactionID int64) (sessions.Session, error) {
	q := `SELECT id, charge_point_id, connector_id, token, transaction_id, started, ended, end_reason, end_token, posted
		FROM sessions WHERE charge_point_id = :charge_point_id AND transaction_id = :transaction_id;`

	return repo.retrieve(ctx, q, dbSession{ChargePointID: chargePointID, TransactionID: transactionID})
}

func (repo *repository) Update(ctx context.Context, session sessions.Session) error {
	q := `UPDATE sessions SET ended = :ended, end_reason = :end_reason, end_token = :end_token, posted = :posted
		WHERE id = :id;`

	res, err := repo.db.NamedExecContext(ctx, q, toDBSession(session))
	if err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func (repo *repository) DeletePostedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := `DELETE FROM sessions WHERE ended IS NOT NULL AND posted < $1;`

	res, err := repo.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, postgres.HandleError(repoerr.ErrRemoveEntity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(repoerr.ErrRemoveEntity, err)
	}

	return n, nil
}

func (repo *repository) retrieve(ctx context.Context, q string, params dbSession) (sessions.Session, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return sessions.Session{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return sessions.Session{}, repoerr.ErrNotFound
	}

	var item dbSession
	if err := rows.StructScan(&item); err != nil {
		return sessions.Session{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return toSession(item), nil
}

type dbSession struct {
	ID            string     `db:"id"`
	ChargePointID string     `db:"charge_point_id"`
	ConnectorID   int        `db:"connector_id"`
	Token         string     `db:"token"`
	TransactionID int64      `db:"transaction_id"`
	Started       time.Time  `db:"started"`
	Ended         *time.Time `db:"ended"`
	EndReason     string     `db:"end_reason"`
	EndToken      string     `db:"end_token"`
	Posted        *time.Time `db:"posted"`
}

func toDBSession(session sessions.Session) dbSession {
	item := dbSession{
		ID:            session.ID,
		ChargePointID: session.ChargePointID,
		ConnectorID:   session.ConnectorID,
		Token:         session.Token,
		TransactionID: session.TransactionID,
		Started:       session.Started,
		EndReason:     session.EndReason,
		EndToken:      session.EndToken,
	}
	if !session.Ended.IsZero() {
		ended := session.Ended
		item.Ended = &ended
	}
	if !session.Posted.IsZero() {
		posted := session.Posted
		item.Posted = &posted
	}

	return item
}

func toSession(item dbSession) sessions.Session {
	session := sessions.Session{
		ID:            item.ID,
		ChargePointID: item.ChargePointID,
		ConnectorID:   item.ConnectorID,
		Token:         item.Token,
		TransactionID: item.TransactionID,
		Started:       item.Started,
		EndReason:     item.EndReason,
		EndToken:      item.EndToken,
	}
	if item.Ended != nil {
		session.Ended = *item.Ended
	}
	if item.Posted != nil {
		session.Posted = *item.Posted
	}

	return session
}
