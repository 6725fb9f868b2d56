// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/sessions"
	"github.com/stretchr/testify/mock"
)

var _ sessions.Authorizer = (*Authorizer)(nil)

// Authorizer is a mock implementation of sessions.Authorizer.
type Authorizer struct {
	mock.Mock
}

func (m *Authorizer) Authorize(ctx context.Context, owner, token string) (sessions.AuthStatus, error) {
	ret := m.Called(ctx, owner, token)

	return ret.Get(0).(sessions.AuthStatus), ret.Error(1)
}
