// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package commands implements asynchronous action dispatch towards
// connected charge points and the bridge translating generic automation
// instructions into protocol actions.
package commands

import (
	"context"

	"github.com/absmach/csms/chargepoints"
)

// Action is the name of an OCPP central-system-initiated call.
type Action string

const (
	ActionGetConfiguration       Action = "GetConfiguration"
	ActionChangeConfiguration    Action = "ChangeConfiguration"
	ActionRemoteStartTransaction Action = "RemoteStartTransaction"
	ActionRemoteStopTransaction  Action = "RemoteStopTransaction"
	ActionReset                  Action = "Reset"
	ActionUnlockConnector        Action = "UnlockConnector"
	ActionChangeAvailability     Action = "ChangeAvailability"
	ActionTriggerMessage         Action = "TriggerMessage"
)

// Connection is an opaque handle to a live charge point connection,
// owned by the external transport.
type Connection any

// Result is the outcome of one dispatched action. Exactly one result
// is delivered per dispatch.
type Result struct {
	Payload map[string]any
	Err     error
}

// Router resolves a live connection for a charge point identity.
//
//go:generate mockery --name Router --output=./mocks --filename router.go --quiet --note "Copyright (c) Abstract Machines"
type Router interface {
	Resolve(ctx context.Context, identity chargepoints.Identity) (Connection, bool)
}

// Handler hands a correlated request to the external broker, which owns
// the timeout and response decoding and completes done exactly once.
//
//go:generate mockery --name Handler --output=./mocks --filename handler.go --quiet --note "Copyright (c) Abstract Machines"
type Handler interface {
	Send(ctx context.Context, conn Connection, correlationID string, action Action, payload any, done chan<- Result)
}

// Service dispatches actions to charge points on a bounded worker
// pool.
//
//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// Dispatch resolves a connection and hands the action to the
	// broker. It never blocks on the send; the returned channel
	// receives exactly one result.
	Dispatch(ctx context.Context, identity chargepoints.Identity, action Action, payload any) <-chan Result

	// Stop drains the worker pool. Dispatch calls after Stop complete
	// with an error result.
	Stop()
}

// InstructionState is the lifecycle state of an automation instruction.
type InstructionState uint8

const (
	// Received means the instruction entered the queue.
	Received InstructionState = iota

	// Executing means the bridge resolved the target and dispatched
	// the action.
	Executing

	// Completed means the device answered and the result is recorded.
	Completed

	// Declined means the instruction was rejected before or after
	// dispatch; terminal.
	Declined
)

var stateNames = map[InstructionState]string{
	Received:  "received",
	Executing: "executing",
	Completed: "completed",
	Declined:  "declined",
}

func (s InstructionState) String() string {
	return stateNames[s]
}

// Instruction is a generic automation instruction. Instructions on the
// charge point topic carry the target identity and the action in their
// params.
type Instruction struct {
	ID      string            `json:"id"`
	Owner   string            `json:"owner"`
	Topic   string            `json:"topic"`
	Params  map[string]string `json:"params,omitempty"`
	State   InstructionState  `json:"state"`
	Message string            `json:"message,omitempty"`
}

// InstructionRepository specifies the instruction persistence API.
//
//go:generate mockery --name InstructionRepository --output=./mocks --filename instructions.go --quiet --note "Copyright (c) Abstract Machines"
type InstructionRepository interface {
	// Save persists a new instruction.
	Save(ctx context.Context, in Instruction) error

	// RetrieveByID returns the instruction with the given ID.
	RetrieveByID(ctx context.Context, id string) (Instruction, error)

	// UpdateStateIf advances the instruction from one state to another
	// in a single compare-and-set, merging the result params and
	// setting the message. A state mismatch returns ErrNotFound and
	// changes nothing.
	UpdateStateIf(ctx context.Context, id string, from, to InstructionState, result map[string]string, message string) error
}
