// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/absmach/csms/chargepoints"
	cpmocks "github.com/absmach/csms/chargepoints/mocks"
	"github.com/absmach/csms/commands"
	"github.com/absmach/csms/commands/mocks"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newBridge() (*commands.Bridge, *mocks.Service, *cpmocks.Service, *mocks.InstructionRepository) {
	dispatcher := new(mocks.Service)
	devices := new(cpmocks.Service)
	instructions := new(mocks.InstructionRepository)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	return commands.NewBridge(dispatcher, devices, instructions, logger), dispatcher, devices, instructions
}

func instruction(params map[string]string) commands.Instruction {
	return commands.Instruction{
		ID:     "in-1",
		Owner:  identity.Owner,
		Topic:  commands.Topic,
		Params: params,
		State:  commands.Received,
	}
}

func TestIntercept(t *testing.T) {
	cp := chargepoints.ChargePoint{ID: "cp-1", Owner: identity.Owner, Identifier: identity.Identifier, Enabled: true}

	t.Run("foreign topic passes through", func(t *testing.T) {
		bridge, _, _, instructions := newBridge()

		in := instruction(map[string]string{"identifier": identity.Identifier})
		in.Topic = "mail"

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.False(t, claimed)
		assert.Equal(t, in, out)
		instructions.AssertNotCalled(t, "UpdateStateIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing device params passes through", func(t *testing.T) {
		bridge, _, _, _ := newBridge()

		in := instruction(map[string]string{"action": "Reset"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.False(t, claimed)
		assert.Equal(t, commands.Received, out.State)
	})

	t.Run("unknown device declines", func(t *testing.T) {
		bridge, _, devices, instructions := newBridge()

		devices.On("Resolve", mock.Anything, identity).Return(chargepoints.ChargePoint{}, chargepoints.ErrUnknownChargePoint)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Declined, mock.Anything, mock.Anything).Return(nil)

		in := instruction(map[string]string{"identifier": identity.Identifier, "action": "Reset", "type": "Soft"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.True(t, claimed)
		assert.Equal(t, commands.Declined, out.State)
		assert.NotEmpty(t, out.Message)
	})

	t.Run("missing action declines", func(t *testing.T) {
		bridge, _, devices, instructions := newBridge()

		devices.On("Resolve", mock.Anything, identity).Return(cp, nil)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Declined, mock.Anything, mock.Anything).Return(nil)

		out, claimed := bridge.Intercept(context.Background(), instruction(map[string]string{"identifier": identity.Identifier}))
		assert.True(t, claimed)
		assert.Equal(t, commands.Declined, out.State)
	})

	t.Run("undecodable payload declines", func(t *testing.T) {
		bridge, _, devices, instructions := newBridge()

		devices.On("Resolve", mock.Anything, identity).Return(cp, nil)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Declined, mock.Anything, mock.Anything).Return(nil)

		in := instruction(map[string]string{"identifier": identity.Identifier, "action": "UnlockConnector", "connectorId": "two"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.True(t, claimed)
		assert.Equal(t, commands.Declined, out.State)
	})

	t.Run("charge point id resolves target", func(t *testing.T) {
		bridge, dispatcher, devices, instructions := newBridge()

		devices.On("Get", mock.Anything, cp.ID).Return(cp, nil)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Executing, mock.Anything, mock.Anything).Return(nil)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Executing, commands.Completed, mock.Anything, mock.Anything).Return(nil)
		dispatcher.On("Dispatch", mock.Anything, identity, commands.ActionReset, mock.Anything).Return(mocks.Result(commands.Result{}))

		in := instruction(map[string]string{"charge_point_id": cp.ID, "action": "Reset", "type": "Soft"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.True(t, claimed)
		assert.Equal(t, commands.Executing, out.State)
		devices.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)

		bridge.Forward(context.Background(), out)
		dispatcher.AssertCalled(t, "Dispatch", mock.Anything, identity, commands.ActionReset, mock.Anything)
	})

	t.Run("unknown charge point id declines", func(t *testing.T) {
		bridge, _, devices, instructions := newBridge()

		devices.On("Get", mock.Anything, "cp-9").Return(chargepoints.ChargePoint{}, chargepoints.ErrUnknownChargePoint)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Declined, mock.Anything, mock.Anything).Return(nil)

		in := instruction(map[string]string{"charge_point_id": "cp-9", "action": "Reset", "type": "Soft"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.True(t, claimed)
		assert.Equal(t, commands.Declined, out.State)
		assert.NotEmpty(t, out.Message)
	})

	t.Run("valid instruction executes", func(t *testing.T) {
		bridge, _, devices, instructions := newBridge()

		devices.On("Resolve", mock.Anything, identity).Return(cp, nil)
		instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Executing, mock.Anything, mock.Anything).Return(nil)

		in := instruction(map[string]string{"identifier": identity.Identifier, "action": "Reset", "type": "Soft"})

		out, claimed := bridge.Intercept(context.Background(), in)
		assert.True(t, claimed)
		assert.Equal(t, commands.Executing, out.State)
		instructions.AssertCalled(t, "UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Executing, mock.Anything, mock.Anything)
	})
}

func TestForward(t *testing.T) {
	cp := chargepoints.ChargePoint{ID: "cp-1", Owner: identity.Owner, Identifier: identity.Identifier, Enabled: true}
	params := map[string]string{"identifier": identity.Identifier, "action": "Reset", "type": "Soft"}

	cases := []struct {
		desc     string
		result   commands.Result
		to       commands.InstructionState
		casErr   error
		expected map[string]string
	}{
		{
			desc:     "device answer completes",
			result:   commands.Result{Payload: map[string]any{"status": "Accepted"}},
			to:       commands.Completed,
			expected: map[string]string{"status": "Accepted"},
		},
		{
			desc:   "dispatch error declines",
			result: commands.Result{Err: commands.ErrClientUnavailable},
			to:     commands.Declined,
		},
		{
			desc:     "no-op when state already moved on",
			result:   commands.Result{Payload: map[string]any{"status": "Accepted"}},
			to:       commands.Completed,
			casErr:   repoerr.ErrNotFound,
			expected: map[string]string{"status": "Accepted"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			bridge, dispatcher, devices, instructions := newBridge()

			devices.On("Resolve", mock.Anything, identity).Return(cp, nil)
			instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Received, commands.Executing, mock.Anything, mock.Anything).Return(nil)
			dispatcher.On("Dispatch", mock.Anything, identity, commands.ActionReset, mock.Anything).Return(mocks.Result(tc.result))

			var gotResult map[string]string
			var gotMessage string
			instructions.On("UpdateStateIf", mock.Anything, "in-1", commands.Executing, tc.to, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				if args.Get(4) != nil {
					gotResult = args.Get(4).(map[string]string)
				}
				gotMessage = args.String(5)
			}).Return(tc.casErr)

			in, claimed := bridge.Intercept(context.Background(), instruction(params))
			assert.True(t, claimed)

			bridge.Forward(context.Background(), in)

			instructions.AssertCalled(t, "UpdateStateIf", mock.Anything, "in-1", commands.Executing, tc.to, mock.Anything, mock.Anything)
			assert.Equal(t, tc.expected, gotResult, tc.desc)
			if tc.to == commands.Declined {
				assert.NotEmpty(t, gotMessage, tc.desc)
			}
		})
	}
}

func TestForwardUnclaimed(t *testing.T) {
	bridge, dispatcher, _, _ := newBridge()

	bridge.Forward(context.Background(), instruction(nil))

	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
