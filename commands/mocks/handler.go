// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/commands"
	"github.com/stretchr/testify/mock"
)

var _ commands.Handler = (*Handler)(nil)

// Handler is a mock implementation of commands.Handler.
type Handler struct {
	mock.Mock
}

func (m *Handler) Send(ctx context.Context, conn commands.Connection, correlationID string, action commands.Action, payload any, done chan<- commands.Result) {
	m.Called(ctx, conn, correlationID, action, payload, done)
}
