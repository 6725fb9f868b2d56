// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"sync"

	"github.com/absmach/csms/chargepoints"
)

var _ Router = (*Registry)(nil)

// Registry is an in-memory Router. The transport adapter registers a
// connection when a charge point attaches and unregisters it on
// disconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[chargepoints.Identity]Connection
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: map[chargepoints.Identity]Connection{}}
}

// Register associates a live connection with the identity, replacing
// any previous one.
func (r *Registry) Register(identity chargepoints.Identity, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[identity] = conn
}

// Unregister drops the connection of the identity.
func (r *Registry) Unregister(identity chargepoints.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, identity)
}

func (r *Registry) Resolve(_ context.Context, identity chargepoints.Identity) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[identity]

	return conn, ok
}
