// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/commands"
	"github.com/go-kit/kit/metrics"
)

var _ commands.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	service commands.Service
}

// NewMetricsMiddleware instruments the dispatch service with request
// count and latency metrics. Latency covers the full round trip to the
// device.
func NewMetricsMiddleware(counter metrics.Counter, latency metrics.Histogram, service commands.Service) commands.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		service: service,
	}
}

func (mm *metricsMiddleware) Dispatch(ctx context.Context, identity chargepoints.Identity, action commands.Action, payload any) <-chan commands.Result {
	begin := time.Now()
	mm.counter.With("method", "dispatch").Add(1)
	results := mm.service.Dispatch(ctx, identity, action, payload)
	out := make(chan commands.Result, 1)

	go func() {
		res := <-results
		mm.latency.With("method", "dispatch").Observe(time.Since(begin).Seconds())
		out <- res
	}()

	return out
}

func (mm *metricsMiddleware) Stop() {
	mm.service.Stop()
}
