// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package ticker abstracts time.Ticker so that background loops can be
// driven manually from tests.
package ticker

import "time"

type Ticker interface {
	Tick() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func NewTicker(d time.Duration) Ticker {
	return &timeTicker{time.NewTicker(d)}
}

func (t *timeTicker) Tick() <-chan time.Time {
	return t.C
}
