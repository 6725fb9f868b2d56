// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	context "context"

	"github.com/absmach/csms/commands"
	"github.com/stretchr/testify/mock"
)

var _ commands.InstructionRepository = (*InstructionRepository)(nil)

// InstructionRepository is a mock implementation of
// commands.InstructionRepository.
type InstructionRepository struct {
	mock.Mock
}

func (m *InstructionRepository) Save(ctx context.Context, in commands.Instruction) error {
	ret := m.Called(ctx, in)

	return ret.Error(0)
}

func (m *InstructionRepository) RetrieveByID(ctx context.Context, id string) (commands.Instruction, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(commands.Instruction), ret.Error(1)
}

func (m *InstructionRepository) UpdateStateIf(ctx context.Context, id string, from, to commands.InstructionState, result map[string]string, message string) error {
	ret := m.Called(ctx, id, from, to, result, message)

	return ret.Error(0)
}
