// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.Service = (*Service)(nil)

// Service is a mock implementation of chargepoints.Service.
type Service struct {
	mock.Mock
}

func (m *Service) Register(ctx context.Context, identity chargepoints.Identity, info chargepoints.Info) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, identity, info)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Service) RegistrationAccepted(ctx context.Context, id string) (bool, error) {
	ret := m.Called(ctx, id)

	return ret.Bool(0), ret.Error(1)
}

func (m *Service) ReconcileConnectors(ctx context.Context, identity chargepoints.Identity) error {
	ret := m.Called(ctx, identity)

	return ret.Error(0)
}

func (m *Service) StatusNotification(ctx context.Context, identity chargepoints.Identity, connectorID int, status chargepoints.ConnectorStatus) error {
	ret := m.Called(ctx, identity, connectorID, status)

	return ret.Error(0)
}

func (m *Service) Resolve(ctx context.Context, identity chargepoints.Identity) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, identity)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Service) Get(ctx context.Context, id string) (chargepoints.ChargePoint, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(chargepoints.ChargePoint), ret.Error(1)
}

func (m *Service) ResolveSettings(ctx context.Context, cp chargepoints.ChargePoint) (chargepoints.Settings, error) {
	ret := m.Called(ctx, cp)

	return ret.Get(0).(chargepoints.Settings), ret.Error(1)
}

func (m *Service) NotifySettingsChanged() {
	m.Called()
}

func (m *Service) Stop() {
	m.Called()
}
