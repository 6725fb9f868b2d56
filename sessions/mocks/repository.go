// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"
	"time"

	"github.com/absmach/csms/sessions"
	"github.com/stretchr/testify/mock"
)

var _ sessions.Repository = (*Repository)(nil)

// Repository is a mock implementation of sessions.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, session sessions.Session) (sessions.Session, error) {
	ret := m.Called(ctx, session)

	return ret.Get(0).(sessions.Session), ret.Error(1)
}

func (m *Repository) RetrieveByID(ctx context.Context, id string) (sessions.Session, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(sessions.Session), ret.Error(1)
}

func (m *Repository) RetrieveActive(ctx context.Context, chargePointID string, connectorID int) (sessions.Session, error) {
	ret := m.Called(ctx, chargePointID, connectorID)

	return ret.Get(0).(sessions.Session), ret.Error(1)
}

func (m *Repository) RetrieveByTransaction(ctx context.Context, chargePointID string, transactionID int64) (sessions.Session, error) {
	ret := m.Called(ctx, chargePointID, transactionID)

	return ret.Get(0).(sessions.Session), ret.Error(1)
}

func (m *Repository) Update(ctx context.Context, session sessions.Session) error {
	ret := m.Called(ctx, session)

	return ret.Error(0)
}

func (m *Repository) DeletePostedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ret := m.Called(ctx, cutoff)

	return ret.Get(0).(int64), ret.Error(1)
}
