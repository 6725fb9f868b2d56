// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.SettingsRepository = (*SettingsRepository)(nil)

// SettingsRepository is a mock implementation of
// chargepoints.SettingsRepository.
type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Save(ctx context.Context, s chargepoints.Settings) error {
	ret := m.Called(ctx, s)

	return ret.Error(0)
}

func (m *SettingsRepository) Retrieve(ctx context.Context, chargePointID string) (chargepoints.Settings, error) {
	ret := m.Called(ctx, chargePointID)

	return ret.Get(0).(chargepoints.Settings), ret.Error(1)
}

func (m *SettingsRepository) RetrieveDefault(ctx context.Context, owner string) (chargepoints.Settings, error) {
	ret := m.Called(ctx, owner)

	return ret.Get(0).(chargepoints.Settings), ret.Error(1)
}
