// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package csms contains shared contracts of the charge-point
// management central system.
package csms

// IDProvider specifies an API for generating unique identifiers.
type IDProvider interface {
	// ID generates the unique identifier.
	ID() (string, error)
}
