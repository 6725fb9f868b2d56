// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/commands"
	"github.com/absmach/csms/commands/mocks"
	"github.com/absmach/csms/pkg/errors"
	"github.com/absmach/csms/pkg/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var identity = chargepoints.Identity{Owner: "owner@example.com", Identifier: "CP-0001"}

func newDispatcher(router *mocks.Router, handler *mocks.Handler) commands.Service {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	return commands.New(router, handler, uuid.NewMock(), 2, logger)
}

func receive(t *testing.T, results <-chan commands.Result) commands.Result {
	t.Helper()

	select {
	case res := <-results:
		return res
	case <-time.After(3 * time.Second):
		t.Fatal("no dispatch result delivered")
		return commands.Result{}
	}
}

func TestDispatch(t *testing.T) {
	t.Run("connected charge point", func(t *testing.T) {
		router := new(mocks.Router)
		handler := new(mocks.Handler)
		svc := newDispatcher(router, handler)
		defer svc.Stop()

		conn := struct{ name string }{name: "ws"}
		router.On("Resolve", mock.Anything, identity).Return(conn, true)
		handler.On("Send", mock.Anything, mock.Anything, mock.Anything, commands.ActionReset, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			done := args.Get(5).(chan<- commands.Result)
			done <- commands.Result{Payload: map[string]any{"status": "Accepted"}}
		})

		res := receive(t, svc.Dispatch(context.Background(), identity, commands.ActionReset, commands.Reset{Type: "Soft"}))
		require.NoError(t, res.Err)
		assert.Equal(t, "Accepted", res.Payload["status"])
	})

	t.Run("unavailable charge point delivers a single error result", func(t *testing.T) {
		router := new(mocks.Router)
		handler := new(mocks.Handler)
		svc := newDispatcher(router, handler)
		defer svc.Stop()

		router.On("Resolve", mock.Anything, identity).Return(nil, false)

		results := svc.Dispatch(context.Background(), identity, commands.ActionReset, commands.Reset{Type: "Soft"})
		res := receive(t, results)
		assert.True(t, errors.Contains(res.Err, commands.ErrClientUnavailable), "expected client unavailable, got %v", res.Err)

		select {
		case extra, ok := <-results:
			if ok {
				t.Fatalf("unexpected second result: %+v", extra)
			}
		case <-time.After(100 * time.Millisecond):
		}
		handler.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dispatch after stop", func(t *testing.T) {
		router := new(mocks.Router)
		handler := new(mocks.Handler)
		svc := newDispatcher(router, handler)

		svc.Stop()
		svc.Stop()

		res := receive(t, svc.Dispatch(context.Background(), identity, commands.ActionReset, commands.Reset{Type: "Soft"}))
		assert.Error(t, res.Err)
	})
}

func TestReadConfiguration(t *testing.T) {
	payload := map[string]any{
		"configurationKey": []any{
			map[string]any{"key": "NumberOfConnectors", "value": "2", "readonly": true},
			map[string]any{"key": "HeartbeatInterval", "value": 300},
			map[string]any{"key": "MissingValue"},
		},
	}

	cases := []struct {
		desc   string
		result commands.Result
		keys   map[string]string
		err    bool
	}{
		{
			desc:   "flattens the response",
			result: commands.Result{Payload: payload},
			keys:   map[string]string{"NumberOfConnectors": "2", "HeartbeatInterval": "300"},
		},
		{
			desc:   "propagates dispatch errors",
			result: commands.Result{Err: commands.ErrClientUnavailable},
			err:    true,
		},
		{
			desc:   "tolerates a shapeless payload",
			result: commands.Result{Payload: map[string]any{"configurationKey": "bogus"}},
			keys:   map[string]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			dispatcher := new(mocks.Service)
			reader := commands.NewConfigReader(dispatcher)

			dispatcher.On("Dispatch", mock.Anything, identity, commands.ActionGetConfiguration, mock.Anything).Return(mocks.Result(tc.result))

			res := <-reader.ReadConfiguration(context.Background(), identity, []string{"NumberOfConnectors"})
			if tc.err {
				assert.Error(t, res.Err, tc.desc)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tc.keys, res.Keys, tc.desc)
		})
	}
}

func TestDecodePayload(t *testing.T) {
	cases := []struct {
		desc   string
		action commands.Action
		params map[string]string
		want   any
		err    error
	}{
		{
			desc:   "remote start",
			action: commands.ActionRemoteStartTransaction,
			params: map[string]string{"idTag": "T1", "connectorId": "2"},
			want:   &commands.RemoteStartTransaction{IDTag: "T1", ConnectorID: 2},
		},
		{
			desc:   "remote stop",
			action: commands.ActionRemoteStopTransaction,
			params: map[string]string{"transactionId": "42"},
			want:   &commands.RemoteStopTransaction{TransactionID: 42},
		},
		{
			desc:   "unknown action",
			action: commands.Action("MeltConnector"),
			err:    commands.ErrUnknownAction,
		},
		{
			desc:   "malformed numeric param",
			action: commands.ActionUnlockConnector,
			params: map[string]string{"connectorId": "two"},
			err:    commands.ErrDecodeFailure,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := commands.DecodePayload(tc.action, tc.params)
			if tc.err != nil {
				assert.True(t, errors.Contains(err, tc.err), "%s: expected %v got %v", tc.desc, tc.err, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, tc.desc)
		})
	}
}
