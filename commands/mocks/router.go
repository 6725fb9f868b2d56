// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/commands"
	"github.com/stretchr/testify/mock"
)

var _ commands.Router = (*Router)(nil)

// Router is a mock implementation of commands.Router.
type Router struct {
	mock.Mock
}

func (m *Router) Resolve(ctx context.Context, identity chargepoints.Identity) (commands.Connection, bool) {
	ret := m.Called(ctx, identity)

	return ret.Get(0), ret.Bool(1)
}
