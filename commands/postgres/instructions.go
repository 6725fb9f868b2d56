// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"encoding/json"

	"github.com/absmach/csms/commands"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/absmach/csms/pkg/postgres"
)

var _ commands.InstructionRepository = (*repository)(nil)

type repository struct {
	db postgres.Database
}

// NewRepository instantiates a PostgreSQL implementation of the
// instruction repository.
func NewRepository(db postgres.Database) commands.InstructionRepository {
	return &repository{db: db}
}

func (repo *repository) Save(ctx context.Context, in commands.Instruction) error {
	q := `INSERT INTO instructions (id, owner, topic, params, state, message)
		VALUES (:id, :owner, :topic, :params, :state, :message);`

	item, err := toDBInstruction(in)
	if err != nil {
		return errors.Wrap(repoerr.ErrCreateEntity, err)
	}
	if _, err := repo.db.NamedExecContext(ctx, q, item); err != nil {
		return postgres.HandleError(repoerr.ErrCreateEntity, err)
	}

	return nil
}

func (repo *repository) RetrieveByID(ctx context.Context, id string) (commands.Instruction, error) {
	q := `SELECT id, owner, topic, params, state, message FROM instructions WHERE id = :id;`

	rows, err := repo.db.NamedQueryContext(ctx, q, dbInstruction{ID: id})
	if err != nil {
		return commands.Instruction{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return commands.Instruction{}, repoerr.ErrNotFound
	}

	var item dbInstruction
	if err := rows.StructScan(&item); err != nil {
		return commands.Instruction{}, errors.Wrap(repoerr.ErrViewEntity, err)
	}

	return toInstruction(item)
}

func (repo *repository) UpdateStateIf(ctx context.Context, id string, from, to commands.InstructionState, result map[string]string, message string) error {
	q := `UPDATE instructions SET state = :state, params = params || :params::jsonb, message = :message
		WHERE id = :id AND state = :from_state;`

	params, err := json.Marshal(mergeParams(result))
	if err != nil {
		return errors.Wrap(repoerr.ErrUpdateEntity, err)
	}
	res, err := repo.db.NamedExecContext(ctx, q, map[string]any{
		"id":         id,
		"state":      uint8(to),
		"from_state": uint8(from),
		"params":     params,
		"message":    message,
	})
	if err != nil {
		return postgres.HandleError(repoerr.ErrUpdateEntity, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func mergeParams(result map[string]string) map[string]string {
	if result == nil {
		return map[string]string{}
	}
	return result
}

type dbInstruction struct {
	ID      string `db:"id"`
	Owner   string `db:"owner"`
	Topic   string `db:"topic"`
	Params  []byte `db:"params"`
	State   uint8  `db:"state"`
	Message string `db:"message"`
}

func toDBInstruction(in commands.Instruction) (dbInstruction, error) {
	params := in.Params
	if params == nil {
		params = map[string]string{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return dbInstruction{}, errors.Wrap(repoerr.ErrMalformedEntity, err)
	}

	return dbInstruction{
		ID:      in.ID,
		Owner:   in.Owner,
		Topic:   in.Topic,
		Params:  data,
		State:   uint8(in.State),
		Message: in.Message,
	}, nil
}

func toInstruction(item dbInstruction) (commands.Instruction, error) {
	var params map[string]string
	if len(item.Params) > 0 {
		if err := json.Unmarshal(item.Params, &params); err != nil {
			return commands.Instruction{}, errors.Wrap(repoerr.ErrMalformedEntity, err)
		}
	}

	return commands.Instruction{
		ID:      item.ID,
		Owner:   item.Owner,
		Topic:   item.Topic,
		Params:  params,
		State:   commands.InstructionState(item.State),
		Message: item.Message,
	}, nil
}
