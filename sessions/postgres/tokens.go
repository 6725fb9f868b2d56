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

var _ sessions.TokenRepository = (*tokenRepository)(nil)

type tokenRepository struct {
	db postgres.Database
}

// NewTokenRepository instantiates a PostgreSQL implementation of the
// authorization token repository.
func NewTokenRepository(db postgres.Database) sessions.TokenRepository {
	return &tokenRepository{db: db}
}

func (repo *tokenRepository) Save(ctx context.Context, token sessions.Token) error {
	q := `INSERT INTO auth_tokens (owner, token, enabled, expiry, parent_id)
		VALUES (:owner, :token, :enabled, :expiry, :parent_id)
		ON CONFLICT (owner, token) DO UPDATE
		SET enabled = :enabled, expiry = :expiry, parent_id = :parent_id;`

	if _, err := repo.db.NamedExecContext(ctx, q, toDBToken(token)); err != nil {
		return postgres.HandleError(repoerr.ErrCreateEntity, err)
	}

	return nil
}

func (repo *tokenRepository) Retrieve(ctx context.Context, owner, token string) (sessions.Token, error) {
	q := `SELECT owner, token, enabled, expiry, parent_id
		FROM auth_tokens WHERE owner = :owner AND token = :token;`

	rows, err := repo.db.NamedQueryContext(ctx, q, dbToken{Owner: owner, Token: token})
	if err != nil {
		return sessions.Token{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return sessions.Token{}, repoerr.ErrNotFound
	}

	var item dbToken
	if err := rows.StructScan(&item); err != nil {
		return sessions.Token{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return toToken(item), nil
}

type dbToken struct {
	Owner    string     `db:"owner"`
	Token    string     `db:"token"`
	Enabled  bool       `db:"enabled"`
	Expiry   *time.Time `db:"expiry"`
	ParentID string     `db:"parent_id"`
}

func toDBToken(token sessions.Token) dbToken {
	item := dbToken{
		Owner:    token.Owner,
		Token:    token.Token,
		Enabled:  token.Enabled,
		ParentID: token.ParentID,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		item.Expiry = &expiry
	}

	return item
}

func toToken(item dbToken) sessions.Token {
	token := sessions.Token{
		Owner:    item.Owner,
		Token:    item.Token,
		Enabled:  item.Enabled,
		ParentID: item.ParentID,
	}
	if item.Expiry != nil {
		token.Expiry = *item.Expiry
	}

	return token
}
