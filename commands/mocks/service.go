// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/commands"
	"github.com/stretchr/testify/mock"
)

var _ commands.Service = (*Service)(nil)

// Service is a mock implementation of commands.Service.
type Service struct {
	mock.Mock
}

func (m *Service) Dispatch(ctx context.Context, identity chargepoints.Identity, action commands.Action, payload any) <-chan commands.Result {
	ret := m.Called(ctx, identity, action, payload)

	return ret.Get(0).(<-chan commands.Result)
}

func (m *Service) Stop() {
	m.Called()
}

// Result returns a receive-only channel already holding one result,
// convenient for stubbing Dispatch.
func Result(res commands.Result) <-chan commands.Result {
	ch := make(chan commands.Result, 1)
	ch <- res

	return ch
}
