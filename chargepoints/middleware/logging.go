// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/csms/chargepoints"
)

var _ chargepoints.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger  *slog.Logger
	service chargepoints.Service
}

// NewLoggingMiddleware adds logging facilities to the charge points
// service.
func NewLoggingMiddleware(logger *slog.Logger, service chargepoints.Service) chargepoints.Service {
	return &loggingMiddleware{
		logger:  logger,
		service: service,
	}
}

func (lm *loggingMiddleware) Register(ctx context.Context, identity chargepoints.Identity, info chargepoints.Info) (cp chargepoints.ChargePoint, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("charge_point",
				slog.String("owner", identity.Owner),
				slog.String("identifier", identity.Identifier),
				slog.String("vendor", info.Vendor),
				slog.String("model", info.Model),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Register charge point failed", args...)
			return
		}
		lm.logger.Info("Register charge point completed successfully", args...)
	}(time.Now())

	return lm.service.Register(ctx, identity, info)
}

func (lm *loggingMiddleware) RegistrationAccepted(ctx context.Context, id string) (accepted bool, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("charge_point_id", id),
			slog.Bool("accepted", accepted),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Registration accepted check failed", args...)
			return
		}
		lm.logger.Info("Registration accepted check completed successfully", args...)
	}(time.Now())

	return lm.service.RegistrationAccepted(ctx, id)
}

func (lm *loggingMiddleware) ReconcileConnectors(ctx context.Context, identity chargepoints.Identity) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("identifier", identity.Identifier),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Reconcile connectors failed", args...)
			return
		}
		lm.logger.Info("Reconcile connectors completed successfully", args...)
	}(time.Now())

	return lm.service.ReconcileConnectors(ctx, identity)
}

func (lm *loggingMiddleware) StatusNotification(ctx context.Context, identity chargepoints.Identity, connectorID int, status chargepoints.ConnectorStatus) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("identifier", identity.Identifier),
			slog.Int("connector_id", connectorID),
			slog.String("status", string(status.Status)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Status notification failed", args...)
			return
		}
		lm.logger.Info("Status notification completed successfully", args...)
	}(time.Now())

	return lm.service.StatusNotification(ctx, identity, connectorID, status)
}

func (lm *loggingMiddleware) Resolve(ctx context.Context, identity chargepoints.Identity) (cp chargepoints.ChargePoint, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("identifier", identity.Identifier),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Resolve charge point failed", args...)
			return
		}
	}(time.Now())

	return lm.service.Resolve(ctx, identity)
}

func (lm *loggingMiddleware) Get(ctx context.Context, id string) (cp chargepoints.ChargePoint, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("charge_point_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get charge point failed", args...)
			return
		}
	}(time.Now())

	return lm.service.Get(ctx, id)
}

func (lm *loggingMiddleware) ResolveSettings(ctx context.Context, cp chargepoints.ChargePoint) (chargepoints.Settings, error) {
	return lm.service.ResolveSettings(ctx, cp)
}

func (lm *loggingMiddleware) NotifySettingsChanged() {
	lm.service.NotifySettingsChanged()
}

func (lm *loggingMiddleware) Stop() {
	lm.service.Stop()
}
