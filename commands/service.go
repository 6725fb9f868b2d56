// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"sync"

	"github.com/absmach/csms"
	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/pkg/errors"
	svcerr "github.com/absmach/csms/pkg/errors/service"
)

var (
	// ErrClientUnavailable indicates no live connection exists for the
	// charge point.
	ErrClientUnavailable = errors.New("charge point not connected")

	errStopped = errors.New("dispatcher stopped")
)

var _ Service = (*service)(nil)

type job struct {
	ctx      context.Context
	identity chargepoints.Identity
	action   Action
	payload  any
	done     chan Result
}

type service struct {
	router  Router
	handler Handler
	idp     csms.IDProvider
	logger  *slog.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// New instantiates the dispatch service with the given number of
// workers.
func New(router Router, handler Handler, idp csms.IDProvider, workers int, logger *slog.Logger) Service {
	svc := &service{
		router:  router,
		handler: handler,
		idp:     idp,
		logger:  logger,
		jobs:    make(chan job, workers),
	}
	for i := 0; i < workers; i++ {
		svc.wg.Add(1)
		go svc.worker()
	}

	return svc
}

func (svc *service) Dispatch(ctx context.Context, identity chargepoints.Identity, action Action, payload any) <-chan Result {
	done := make(chan Result, 1)

	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if svc.stopped {
		done <- Result{Err: errStopped}
		return done
	}
	j := job{ctx: ctx, identity: identity, action: action, payload: payload, done: done}
	select {
	case svc.jobs <- j:
	case <-ctx.Done():
		done <- Result{Err: errors.Wrap(ErrClientUnavailable, ctx.Err())}
	}

	return done
}

func (svc *service) Stop() {
	svc.mu.Lock()
	if svc.stopped {
		svc.mu.Unlock()
		return
	}
	svc.stopped = true
	close(svc.jobs)
	svc.mu.Unlock()

	svc.wg.Wait()
	svc.logger.Info("dispatch workers drained")
}

func (svc *service) worker() {
	defer svc.wg.Done()

	for j := range svc.jobs {
		conn, ok := svc.router.Resolve(j.ctx, j.identity)
		if !ok {
			j.done <- Result{Err: ErrClientUnavailable}
			continue
		}
		correlationID, err := svc.idp.ID()
		if err != nil {
			j.done <- Result{Err: errors.Wrap(svcerr.ErrUniqueID, err)}
			continue
		}
		svc.handler.Send(j.ctx, conn, correlationID, j.action, j.payload, j.done)
	}
}
