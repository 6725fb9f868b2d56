// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/absmach/csms/pkg/errors"
	"github.com/mitchellh/mapstructure"
)

var (
	// ErrUnknownAction indicates an action outside the catalog.
	ErrUnknownAction = errors.New("unknown action")

	// ErrDecodeFailure indicates instruction params that cannot be
	// decoded into the resolved action payload. Terminal for the
	// instruction.
	ErrDecodeFailure = errors.New("failed to decode action payload")
)

// GetConfiguration requests configuration keys; all keys when empty.
type GetConfiguration struct {
	Keys []string `mapstructure:"keys,omitempty" json:"key,omitempty"`
}

// ChangeConfiguration sets one configuration key.
type ChangeConfiguration struct {
	Key   string `mapstructure:"key" json:"key"`
	Value string `mapstructure:"value" json:"value"`
}

// RemoteStartTransaction asks the charge point to start a transaction.
type RemoteStartTransaction struct {
	ConnectorID int    `mapstructure:"connectorId,omitempty" json:"connectorId,omitempty"`
	IDTag       string `mapstructure:"idTag" json:"idTag"`
}

// RemoteStopTransaction asks the charge point to stop a transaction.
type RemoteStopTransaction struct {
	TransactionID int64 `mapstructure:"transactionId" json:"transactionId"`
}

// Reset restarts the charge point; Type is Hard or Soft.
type Reset struct {
	Type string `mapstructure:"type" json:"type"`
}

// UnlockConnector releases the connector lock.
type UnlockConnector struct {
	ConnectorID int `mapstructure:"connectorId" json:"connectorId"`
}

// ChangeAvailability switches a connector between Operative and
// Inoperative; connector 0 addresses the whole charge point.
type ChangeAvailability struct {
	ConnectorID int    `mapstructure:"connectorId" json:"connectorId"`
	Type        string `mapstructure:"type" json:"type"`
}

// TriggerMessage asks the charge point to send a message on its own
// initiative.
type TriggerMessage struct {
	RequestedMessage string `mapstructure:"requestedMessage" json:"requestedMessage"`
	ConnectorID      int    `mapstructure:"connectorId,omitempty" json:"connectorId,omitempty"`
}

// payloads is the action catalog of this core: extensible, not an
// exhaustive OCPP surface.
var payloads = map[Action]func() any{
	ActionGetConfiguration:       func() any { return &GetConfiguration{} },
	ActionChangeConfiguration:    func() any { return &ChangeConfiguration{} },
	ActionRemoteStartTransaction: func() any { return &RemoteStartTransaction{} },
	ActionRemoteStopTransaction:  func() any { return &RemoteStopTransaction{} },
	ActionReset:                  func() any { return &Reset{} },
	ActionUnlockConnector:        func() any { return &UnlockConnector{} },
	ActionChangeAvailability:     func() any { return &ChangeAvailability{} },
	ActionTriggerMessage:         func() any { return &TriggerMessage{} },
}

// DecodePayload builds the typed payload of the action from generic
// string params. String values are weakly converted to the target
// field types.
func DecodePayload(action Action, params map[string]string) (any, error) {
	build, ok := payloads[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	payload := build()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           payload,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(ErrDecodeFailure, err)
	}
	if err := dec.Decode(params); err != nil {
		return nil, errors.Wrap(ErrDecodeFailure, err)
	}

	return payload, nil
}
