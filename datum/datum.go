// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package datum derives normalized time-series records from OCPP
// telemetry. All derivation logic is pure and table-driven so the
// measurand catalog can be extended without touching control flow.
package datum

import (
	"context"
	"time"
)

// Classification tells consumers how a property accumulates over time.
type Classification uint8

const (
	// Instantaneous properties are point-in-time values, e.g. power.
	Instantaneous Classification = iota

	// Accumulating properties are meter-register style totals, e.g.
	// imported energy.
	Accumulating

	// Status properties are textual annotations, e.g. a session ID.
	Status
)

var classificationNames = map[Classification]string{
	Instantaneous: "i",
	Accumulating:  "a",
	Status:        "s",
}

func (c Classification) String() string {
	return classificationNames[c]
}

// Property is a single named value of a datum.
type Property struct {
	Value          float64
	StringValue    string
	Classification Classification
}

// Datum is a timestamped set of named properties resolved to one source
// ID, built from one or more readings sharing the same timestamp.
type Datum struct {
	Timestamp  time.Time
	SourceID   string
	NodeID     int64
	Properties map[string]Property

	names []string
}

// New returns an empty datum for the given timestamp and source.
func New(ts time.Time, sourceID string, nodeID int64) *Datum {
	return &Datum{
		Timestamp:  ts,
		SourceID:   sourceID,
		NodeID:     nodeID,
		Properties: map[string]Property{},
	}
}

// Put sets the named property, keeping insertion order for encoding.
func (d *Datum) Put(name string, p Property) {
	if _, ok := d.Properties[name]; !ok {
		d.names = append(d.names, name)
	}
	d.Properties[name] = p
}

// Names returns property names in insertion order.
func (d *Datum) Names() []string {
	return d.names
}

// Repository specifies the primary time-series store for datums.
//
//go:generate mockery --name Repository --output=./mocks --filename repository.go --quiet --note "Copyright (c) Abstract Machines"
type Repository interface {
	// Store persists a single datum.
	Store(ctx context.Context, d Datum) error
}
