// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats contains the NATS request-reply implementation of the
// action handler. The transport adapter holding the charge point
// socket subscribes on its own subject and answers with the device
// response.
package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/absmach/csms/commands"
	"github.com/absmach/csms/pkg/errors"
	broker "github.com/nats-io/nats.go"
)

var (
	errMarshalCall   = errors.New("failed to marshal action call")
	errUnmarshalResp = errors.New("failed to unmarshal action response")
	errBadConnection = errors.New("connection is not a subject")
)

// call is the wire envelope of one correlated action request.
type call struct {
	ID      string          `json:"id"`
	Action  commands.Action `json:"action"`
	Payload any             `json:"payload,omitempty"`
}

var _ commands.Handler = (*handler)(nil)

type handler struct {
	conn    *broker.Conn
	timeout time.Duration
}

// NewHandler returns a Handler sending correlated action calls over
// NATS request-reply with the given per-call timeout.
func NewHandler(conn *broker.Conn, timeout time.Duration) commands.Handler {
	return &handler{conn: conn, timeout: timeout}
}

func (h *handler) Send(ctx context.Context, conn commands.Connection, correlationID string, action commands.Action, payload any, done chan<- commands.Result) {
	subject, ok := conn.(string)
	if !ok || subject == "" {
		done <- commands.Result{Err: errBadConnection}
		return
	}

	body, err := json.Marshal(call{ID: correlationID, Action: action, Payload: payload})
	if err != nil {
		done <- commands.Result{Err: errors.Wrap(errMarshalCall, err)}
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	msg, err := h.conn.RequestWithContext(ctx, subject, body)
	if err != nil {
		done <- commands.Result{Err: err}
		return
	}

	var resp map[string]any
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		done <- commands.Result{Err: errors.Wrap(errUnmarshalResp, err)}
		return
	}
	done <- commands.Result{Payload: resp}
}
