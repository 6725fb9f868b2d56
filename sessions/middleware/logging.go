// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/sessions"
)

var _ sessions.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger  *slog.Logger
	service sessions.Service
}

// NewLoggingMiddleware adds logging facilities to the sessions service.
func NewLoggingMiddleware(logger *slog.Logger, service sessions.Service) sessions.Service {
	return &loggingMiddleware{
		logger:  logger,
		service: service,
	}
}

func (lm *loggingMiddleware) StartSession(ctx context.Context, req sessions.StartRequest) (session sessions.Session, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("identifier", req.Identity.Identifier),
				slog.Int("connector_id", req.ConnectorID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start session failed", args...)
			return
		}
		args = append(args, slog.String("session_id", session.ID), slog.Int64("transaction_id", session.TransactionID))
		lm.logger.Info("Start session completed successfully", args...)
	}(time.Now())

	return lm.service.StartSession(ctx, req)
}

func (lm *loggingMiddleware) EndSession(ctx context.Context, req sessions.EndRequest) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("identifier", req.Identity.Identifier),
				slog.Int64("transaction_id", req.TransactionID),
				slog.String("reason", req.Reason),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("End session failed", args...)
			return
		}
		lm.logger.Info("End session completed successfully", args...)
	}(time.Now())

	return lm.service.EndSession(ctx, req)
}

func (lm *loggingMiddleware) AddReadings(ctx context.Context, identity chargepoints.Identity, connectorID int, transactionID int64, readings []sessions.Reading) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("identifier", identity.Identifier),
			slog.Int("connector_id", connectorID),
			slog.Int("readings", len(readings)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add readings failed", args...)
			return
		}
		lm.logger.Info("Add readings completed successfully", args...)
	}(time.Now())

	return lm.service.AddReadings(ctx, identity, connectorID, transactionID, readings)
}

func (lm *loggingMiddleware) Start() {
	lm.service.Start()
}

func (lm *loggingMiddleware) Stop() {
	lm.service.Stop()
}
