// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/sessions"
	"github.com/stretchr/testify/mock"
)

var _ sessions.ReadingRepository = (*ReadingRepository)(nil)

// ReadingRepository is a mock implementation of
// sessions.ReadingRepository.
type ReadingRepository struct {
	mock.Mock
}

func (m *ReadingRepository) Save(ctx context.Context, readings []sessions.Reading) error {
	ret := m.Called(ctx, readings)

	return ret.Error(0)
}

func (m *ReadingRepository) RetrieveBySession(ctx context.Context, sessionID string) ([]sessions.Reading, error) {
	ret := m.Called(ctx, sessionID)

	var readings []sessions.Reading
	if ret.Get(0) != nil {
		readings = ret.Get(0).([]sessions.Reading)
	}

	return readings, ret.Error(1)
}
