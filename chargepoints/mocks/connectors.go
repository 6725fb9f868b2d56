// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.ConnectorRepository = (*ConnectorRepository)(nil)

// ConnectorRepository is a mock implementation of
// chargepoints.ConnectorRepository.
type ConnectorRepository struct {
	mock.Mock
}

func (m *ConnectorRepository) Save(ctx context.Context, conn chargepoints.Connector) error {
	ret := m.Called(ctx, conn)

	return ret.Error(0)
}

func (m *ConnectorRepository) RetrieveByChargePoint(ctx context.Context, chargePointID string) ([]chargepoints.Connector, error) {
	ret := m.Called(ctx, chargePointID)

	return ret.Get(0).([]chargepoints.Connector), ret.Error(1)
}

func (m *ConnectorRepository) Reconcile(ctx context.Context, chargePointID string, count int) error {
	ret := m.Called(ctx, chargePointID, count)

	return ret.Error(0)
}
