// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/sessions"
	"github.com/stretchr/testify/mock"
)

var _ sessions.TokenRepository = (*TokenRepository)(nil)

// TokenRepository is a mock implementation of sessions.TokenRepository.
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) Save(ctx context.Context, token sessions.Token) error {
	ret := m.Called(ctx, token)

	return ret.Error(0)
}

func (m *TokenRepository) Retrieve(ctx context.Context, owner, token string) (sessions.Token, error) {
	ret := m.Called(ctx, owner, token)

	return ret.Get(0).(sessions.Token), ret.Error(1)
}
