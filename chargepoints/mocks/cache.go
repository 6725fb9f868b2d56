// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/stretchr/testify/mock"
)

var _ chargepoints.Cache = (*Cache)(nil)

// Cache is a mock implementation of chargepoints.Cache.
type Cache struct {
	mock.Mock
}

func (m *Cache) Save(ctx context.Context, identity chargepoints.Identity, id string) error {
	ret := m.Called(ctx, identity, id)

	return ret.Error(0)
}

func (m *Cache) ID(ctx context.Context, identity chargepoints.Identity) (string, error) {
	ret := m.Called(ctx, identity)

	return ret.String(0), ret.Error(1)
}

func (m *Cache) Remove(ctx context.Context, identity chargepoints.Identity) error {
	ret := m.Called(ctx, identity)

	return ret.Error(0)
}
