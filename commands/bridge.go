// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
)

// Topic is the instruction topic the bridge claims; instructions on
// other topics pass through untouched.
const Topic = "ocpp"

// Param keys of charge point instructions. The target device is named
// either by wire identifier or by stored charge point ID.
const (
	ParamOwner      = "owner"
	ParamIdentifier = "identifier"
	ParamID         = "charge_point_id"
	ParamAction     = "action"
)

type target struct {
	identity chargepoints.Identity
	action   Action
	payload  any
}

// Bridge translates generic automation instructions into protocol
// actions: Intercept validates and marks an instruction Executing
// before it enters the queue, Forward dispatches it after.
type Bridge struct {
	dispatcher   Service
	devices      chargepoints.Service
	instructions InstructionRepository
	logger       *slog.Logger

	mu      sync.Mutex
	pending map[string]target
}

// NewBridge instantiates the instruction bridge.
func NewBridge(dispatcher Service, devices chargepoints.Service, instructions InstructionRepository, logger *slog.Logger) *Bridge {
	return &Bridge{
		dispatcher:   dispatcher,
		devices:      devices,
		instructions: instructions,
		logger:       logger,
		pending:      map[string]target{},
	}
}

// Intercept inspects an instruction before it enters the queue. It
// returns the updated instruction and whether the bridge claimed it.
// Unclaimed instructions pass through to other handlers unchanged.
func (b *Bridge) Intercept(ctx context.Context, in Instruction) (Instruction, bool) {
	if in.Topic != Topic {
		return in, false
	}
	identifier := in.Params[ParamIdentifier]
	id := in.Params[ParamID]
	if identifier == "" && id == "" {
		return in, false
	}

	var identity chargepoints.Identity
	switch {
	case identifier != "":
		identity = chargepoints.Identity{Owner: in.Owner, Identifier: identifier}
		if owner, ok := in.Params[ParamOwner]; ok && owner != "" {
			identity.Owner = owner
		}
		if _, err := b.devices.Resolve(ctx, identity); err != nil {
			return b.decline(ctx, in, errors.Wrap(chargepoints.ErrUnknownChargePoint, err))
		}
	default:
		cp, err := b.devices.Get(ctx, id)
		if err != nil {
			return b.decline(ctx, in, err)
		}
		identity = chargepoints.Identity{Owner: cp.Owner, Identifier: cp.Identifier}
	}

	name, ok := in.Params[ParamAction]
	if !ok || name == "" {
		return b.decline(ctx, in, errors.New("missing action param"))
	}
	payload, err := DecodePayload(Action(name), payloadParams(in.Params))
	if err != nil {
		return b.decline(ctx, in, err)
	}

	in.State = Executing
	if err := b.instructions.UpdateStateIf(ctx, in.ID, Received, Executing, nil, ""); err != nil {
		b.logger.Warn("failed to mark instruction executing", slog.String("instruction_id", in.ID), slog.Any("error", err))
	}

	b.mu.Lock()
	b.pending[in.ID] = target{identity: identity, action: Action(name), payload: payload}
	b.mu.Unlock()

	return in, true
}

// Forward dispatches a previously intercepted instruction and records
// the outcome. The state update is a compare-and-set from Executing, so
// it is a no-op when the instruction already left that state.
func (b *Bridge) Forward(ctx context.Context, in Instruction) {
	b.mu.Lock()
	tgt, ok := b.pending[in.ID]
	delete(b.pending, in.ID)
	b.mu.Unlock()
	if !ok {
		b.logger.Warn("no pending target for instruction", slog.String("instruction_id", in.ID))
		return
	}

	res := <-b.dispatcher.Dispatch(ctx, tgt.identity, tgt.action, tgt.payload)
	if res.Err != nil {
		b.complete(ctx, in.ID, Declined, nil, res.Err.Error())
		return
	}
	b.complete(ctx, in.ID, Completed, resultParams(res.Payload), "")
}

func (b *Bridge) decline(ctx context.Context, in Instruction, reason error) (Instruction, bool) {
	in.State = Declined
	in.Message = reason.Error()
	if err := b.instructions.UpdateStateIf(ctx, in.ID, Received, Declined, nil, in.Message); err != nil {
		b.logger.Warn("failed to decline instruction", slog.String("instruction_id", in.ID), slog.Any("error", err))
	}

	return in, true
}

func (b *Bridge) complete(ctx context.Context, id string, state InstructionState, result map[string]string, message string) {
	err := b.instructions.UpdateStateIf(ctx, id, Executing, state, result, message)
	switch {
	case err == nil:
	case errors.Contains(err, repoerr.ErrNotFound):
		// Already left Executing.
	default:
		b.logger.Warn("failed to record instruction outcome", slog.String("instruction_id", id), slog.Any("error", err))
	}
}

func payloadParams(params map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range params {
		switch k {
		case ParamOwner, ParamIdentifier, ParamID, ParamAction:
		default:
			out[k] = v
		}
	}

	return out
}

func resultParams(payload map[string]any) map[string]string {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string]string, len(payload))
	for k, v := range payload {
		out[k] = fmt.Sprint(v)
	}

	return out
}
