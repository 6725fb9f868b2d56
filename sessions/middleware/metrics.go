// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/sessions"
	"github.com/go-kit/kit/metrics"
)

var _ sessions.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	service sessions.Service
}

// NewMetricsMiddleware instruments the sessions service with request
// count and latency metrics.
func NewMetricsMiddleware(counter metrics.Counter, latency metrics.Histogram, service sessions.Service) sessions.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		service: service,
	}
}

func (mm *metricsMiddleware) StartSession(ctx context.Context, req sessions.StartRequest) (sessions.Session, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "start_session").Add(1)
		mm.latency.With("method", "start_session").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.StartSession(ctx, req)
}

func (mm *metricsMiddleware) EndSession(ctx context.Context, req sessions.EndRequest) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "end_session").Add(1)
		mm.latency.With("method", "end_session").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.EndSession(ctx, req)
}

func (mm *metricsMiddleware) AddReadings(ctx context.Context, identity chargepoints.Identity, connectorID int, transactionID int64, readings []sessions.Reading) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "add_readings").Add(1)
		mm.latency.With("method", "add_readings").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.service.AddReadings(ctx, identity, connectorID, transactionID, readings)
}

func (mm *metricsMiddleware) Start() {
	mm.service.Start()
}

func (mm *metricsMiddleware) Stop() {
	mm.service.Stop()
}
