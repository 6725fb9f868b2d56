// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/go-kit/kit/metrics"
)

var _ chargepoints.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	service chargepoints.Service
}

// NewMetricsMiddleware instruments the charge points service with
// request count and latency metrics.
func NewMetricsMiddleware(counter metrics.Counter, latency metrics.Histogram, service chargepoints.Service) chargepoints.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		service: service,
	}
}

func (mm *metricsMiddleware) Register(ctx context.Context, identity chargepoints.Identity, info chargepoints.Info) (chargepoints.ChargePoint, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "register").Add(1)
		mm.latency.With("method", "register").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.Register(ctx, identity, info)
}

func (mm *metricsMiddleware) RegistrationAccepted(ctx context.Context, id string) (bool, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "registration_accepted").Add(1)
		mm.latency.With("method", "registration_accepted").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.RegistrationAccepted(ctx, id)
}

func (mm *metricsMiddleware) ReconcileConnectors(ctx context.Context, identity chargepoints.Identity) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "reconcile_connectors").Add(1)
		mm.latency.With("method", "reconcile_connectors").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.ReconcileConnectors(ctx, identity)
}

func (mm *metricsMiddleware) StatusNotification(ctx context.Context, identity chargepoints.Identity, connectorID int, status chargepoints.ConnectorStatus) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "status_notification").Add(1)
		mm.latency.With("method", "status_notification").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.StatusNotification(ctx, identity, connectorID, status)
}

func (mm *metricsMiddleware) Resolve(ctx context.Context, identity chargepoints.Identity) (chargepoints.ChargePoint, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "resolve").Add(1)
		mm.latency.With("method", "resolve").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.Resolve(ctx, identity)
}

func (mm *metricsMiddleware) Get(ctx context.Context, id string) (chargepoints.ChargePoint, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get").Add(1)
		mm.latency.With("method", "get").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.Get(ctx, id)
}

func (mm *metricsMiddleware) ResolveSettings(ctx context.Context, cp chargepoints.ChargePoint) (chargepoints.Settings, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "resolve_settings").Add(1)
		mm.latency.With("method", "resolve_settings").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.ResolveSettings(ctx, cp)
}

func (mm *metricsMiddleware) NotifySettingsChanged() {
	mm.service.NotifySettingsChanged()
}

func (mm *metricsMiddleware) Stop() {
	mm.service.Stop()
}
