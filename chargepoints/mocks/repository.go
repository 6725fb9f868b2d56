// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.Repository = (*Repository)(nil)

// Repository is a mock implementation of chargepoints.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, cp chargepoints.ChargePoint) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, cp)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Repository) RetrieveByIdentity(ctx context.Context, identity chargepoints.Identity) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, identity)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Repository) RetrieveByID(ctx context.Context, id string) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Repository) Update(ctx context.Context, cp chargepoints.ChargePoint) error {
	ret := m.Called(ctx, cp)

	return ret.Error(0)
}
