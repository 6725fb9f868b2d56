// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/commands"
)

var _ commands.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger  *slog.Logger
	service commands.Service
}

// NewLoggingMiddleware adds logging facilities to the dispatch service.
// The result is logged when it arrives, not when the call returns.
func NewLoggingMiddleware(logger *slog.Logger, service commands.Service) commands.Service {
	return &loggingMiddleware{
		logger:  logger,
		service: service,
	}
}

func (lm *loggingMiddleware) Dispatch(ctx context.Context, identity chargepoints.Identity, action commands.Action, payload any) <-chan commands.Result {
	begin := time.Now()
	results := lm.service.Dispatch(ctx, identity, action, payload)
	out := make(chan commands.Result, 1)

	go func() {
		res := <-results
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("identifier", identity.Identifier),
			slog.String("action", string(action)),
		}
		if res.Err != nil {
			args = append(args, slog.Any("error", res.Err))
			lm.logger.Warn("Dispatch failed", args...)
		} else {
			lm.logger.Info("Dispatch completed successfully", args...)
		}
		out <- res
	}()

	return out
}

func (lm *loggingMiddleware) Stop() {
	lm.service.Stop()
}
