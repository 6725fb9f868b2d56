// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package chargepoints

import (
	"context"
	"time"

	"github.com/absmach/csms/ocpp"
)

// Identity is the wire-level identity of a charge point: the owner it
// was provisioned under together with the identifier the device
// presents on connect.
type Identity struct {
	Owner      string `json:"owner"`
	Identifier string `json:"identifier"`
}

// Info holds the metadata a charge point reports about itself during
// registration.
type Info struct {
	Vendor          string `json:"vendor"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serial_number,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
}

// RegistrationStatus represents the provisioning decision for a charge
// point.
type RegistrationStatus uint8

const (
	// Pending means the charge point is provisioned but not yet
	// approved to operate.
	Pending RegistrationStatus = iota

	// Accepted means the charge point may operate.
	Accepted

	// Rejected means the charge point must not operate.
	Rejected
)

var registrationNames = map[RegistrationStatus]string{
	Pending:  "pending",
	Accepted: "accepted",
	Rejected: "rejected",
}

func (s RegistrationStatus) String() string {
	return registrationNames[s]
}

// ChargePoint represents one registered charging station. Charge points
// are provisioned out-of-band; registration only reconciles the stored
// record with what the device reports.
type ChargePoint struct {
	ID             string             `json:"id"`
	Owner          string             `json:"owner"`
	Identifier     string             `json:"identifier"`
	Info           Info               `json:"info"`
	ConnectorCount int                `json:"connector_count"`
	Registration   RegistrationStatus `json:"registration"`
	Enabled        bool               `json:"enabled"`
	NodeID         int64              `json:"node_id"`
}

// Identity returns the wire identity of the charge point.
func (cp ChargePoint) Identity() Identity {
	return Identity{Owner: cp.Owner, Identifier: cp.Identifier}
}

// ConnectorStatus is the latest reported state of one connector.
type ConnectorStatus struct {
	Status          ocpp.ChargePointStatus `json:"status"`
	ErrorCode       ocpp.ErrorCode         `json:"error_code"`
	Info            string                 `json:"info,omitempty"`
	VendorID        string                 `json:"vendor_id,omitempty"`
	VendorErrorCode string                 `json:"vendor_error_code,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
}

// Connector is one physical charging outlet on a charge point,
// numbered from 1.
type Connector struct {
	ChargePointID string          `json:"charge_point_id"`
	Index         int             `json:"index"`
	Status        ConnectorStatus `json:"status"`
}

// Settings are the effective publish settings of a charge point. A
// record with an empty ChargePointID is the owner-wide default.
type Settings struct {
	ChargePointID    string `json:"charge_point_id,omitempty"`
	Owner            string `json:"owner"`
	Publish          bool   `json:"publish"`
	Stream           bool   `json:"stream"`
	SourceIDTemplate string `json:"source_id_template,omitempty"`
}

// Repository specifies the charge point persistence API.
//
//go:generate mockery --name Repository --output=./mocks --filename repository.go --quiet --note "Copyright (c) Abstract Machines"
type Repository interface {
	// Save persists a provisioned charge point and returns it with its
	// assigned ID.
	Save(ctx context.Context, cp ChargePoint) (ChargePoint, error)

	// RetrieveByIdentity retrieves a charge point by its wire identity.
	RetrieveByIdentity(ctx context.Context, identity Identity) (ChargePoint, error)

	// RetrieveByID retrieves a charge point by its ID.
	RetrieveByID(ctx context.Context, id string) (ChargePoint, error)

	// Update overwrites the mutable fields of a charge point.
	Update(ctx context.Context, cp ChargePoint) error
}

// ConnectorRepository specifies the connector persistence API.
//
//go:generate mockery --name ConnectorRepository --output=./mocks --filename connectors.go --quiet --note "Copyright (c) Abstract Machines"
type ConnectorRepository interface {
	// Save upserts the status of one connector.
	Save(ctx context.Context, conn Connector) error

	// RetrieveByChargePoint returns all connectors of a charge point
	// ordered by index.
	RetrieveByChargePoint(ctx context.Context, chargePointID string) ([]Connector, error)

	// Reconcile aligns stored connectors with the reported count in one
	// atomic unit: indices missing from 1..count are created with a
	// default status, indices outside the range are removed.
	Reconcile(ctx context.Context, chargePointID string, count int) error
}

// SettingsRepository specifies the publish settings persistence API.
//
//go:generate mockery --name SettingsRepository --output=./mocks --filename settings.go --quiet --note "Copyright (c) Abstract Machines"
type SettingsRepository interface {
	// Save persists settings for a charge point or an owner default.
	Save(ctx context.Context, s Settings) error

	// Retrieve returns the settings of the given charge point.
	Retrieve(ctx context.Context, chargePointID string) (Settings, error)

	// RetrieveDefault returns the owner-wide default settings.
	RetrieveDefault(ctx context.Context, owner string) (Settings, error)
}

// Cache caches the wire identity to charge point ID association.
//
//go:generate mockery --name Cache --output=./mocks --filename cache.go --quiet --note "Copyright (c) Abstract Machines"
type Cache interface {
	// Save stores the identity to ID association.
	Save(ctx context.Context, identity Identity, id string) error

	// ID returns the cached charge point ID for the identity.
	ID(ctx context.Context, identity Identity) (string, error)

	// Remove evicts the identity from the cache.
	Remove(ctx context.Context, identity Identity) error
}
