// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/datum"
	"github.com/stretchr/testify/mock"
)

var _ datum.Repository = (*Repository)(nil)

// Repository is a mock implementation of datum.Repository.
type Repository struct {
	mock.Mock
}

func (m *Repository) Store(ctx context.Context, d datum.Datum) error {
	ret := m.Called(ctx, d)

	return ret.Error(0)
}
