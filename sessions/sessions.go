// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package sessions implements the charging session state machine:
// authorization, start, end, and telemetry ingestion. A session moves
// Absent -> Active -> Ended and Ended is terminal.
package sessions

import (
	"context"
	"time"

	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
)

// AuthStatus is the outcome of authorizing a token for a session
// operation.
type AuthStatus uint8

const (
	// Accepted means the token may start a session.
	Accepted AuthStatus = iota

	// Blocked means the token exists but is disabled.
	Blocked

	// Expired means the token exists but its expiry has passed.
	Expired

	// Invalid means the token, device, or session could not be
	// resolved.
	Invalid

	// ConcurrentTx means the connector already runs an active session.
	ConcurrentTx
)

var authNames = map[AuthStatus]string{
	Accepted:     "Accepted",
	Blocked:      "Blocked",
	Expired:      "Expired",
	Invalid:      "Invalid",
	ConcurrentTx: "ConcurrentTx",
}

func (s AuthStatus) String() string {
	return authNames[s]
}

var (
	// ErrBlocked indicates a disabled authorization token.
	ErrBlocked = errors.New("authorization token blocked")

	// ErrExpired indicates an authorization token past its expiry.
	ErrExpired = errors.New("authorization token expired")

	// ErrInvalid indicates an unresolvable token, device, or session.
	ErrInvalid = errors.New("invalid session request")

	// ErrConcurrentTx indicates an active session already occupies the
	// connector.
	ErrConcurrentTx = errors.New("concurrent transaction on connector")
)

// Err maps the status to its error variable; Accepted maps to nil.
func (s AuthStatus) Err() error {
	switch s {
	case Blocked:
		return ErrBlocked
	case Expired:
		return ErrExpired
	case ConcurrentTx:
		return ErrConcurrentTx
	case Accepted:
		return nil
	default:
		return ErrInvalid
	}
}

// Token is an authorization token provisioned out-of-band. Read-only
// to this service.
type Token struct {
	Owner    string    `json:"owner"`
	Token    string    `json:"token"`
	Enabled  bool      `json:"enabled"`
	Expiry   time.Time `json:"expiry,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`
}

// Session is one charging transaction. The transaction ID is assigned
// by storage on first save and re-read. A zero Ended time means the
// session is active.
type Session struct {
	ID            string    `json:"id"`
	ChargePointID string    `json:"charge_point_id"`
	ConnectorID   int       `json:"connector_id"`
	Token         string    `json:"token"`
	TransactionID int64     `json:"transaction_id"`
	Started       time.Time `json:"started"`
	Ended         time.Time `json:"ended,omitempty"`
	EndReason     string    `json:"end_reason,omitempty"`
	EndToken      string    `json:"end_token,omitempty"`
	Posted        time.Time `json:"posted,omitempty"`
}

// Active reports whether the session has not ended yet.
func (s Session) Active() bool {
	return s.Ended.IsZero()
}

// Reading is one sampled value reported by a charge point. Readings
// are append-only; a reading content-equal to a stored one must not be
// re-inserted.
type Reading struct {
	SessionID string              `json:"session_id,omitempty"`
	Context   ocpp.ReadingContext `json:"context"`
	Timestamp time.Time           `json:"timestamp"`
	Measurand ocpp.Measurand      `json:"measurand"`
	Phase     ocpp.Phase          `json:"phase,omitempty"`
	Location  ocpp.Location       `json:"location,omitempty"`
	Unit      ocpp.Unit           `json:"unit,omitempty"`
	Value     string              `json:"value"`
}

// Equal reports full content equality of two readings.
func (r Reading) Equal(other Reading) bool {
	return r.SessionID == other.SessionID &&
		r.Context == other.Context &&
		r.Timestamp.Equal(other.Timestamp) &&
		r.Measurand == other.Measurand &&
		r.Phase == other.Phase &&
		r.Location == other.Location &&
		r.Unit == other.Unit &&
		r.Value == other.Value
}

// Authorizer computes the authorization decision for a token presented
// by a charge point.
//
//go:generate mockery --name Authorizer --output=./mocks --filename authorizer.go --quiet --note "Copyright (c) Abstract Machines"
type Authorizer interface {
	Authorize(ctx context.Context, owner, token string) (AuthStatus, error)
}

// TokenRepository specifies the authorization token persistence API.
//
//go:generate mockery --name TokenRepository --output=./mocks --filename tokens.go --quiet --note "Copyright (c) Abstract Machines"
type TokenRepository interface {
	// Save persists a token.
	Save(ctx context.Context, token Token) error

	// Retrieve returns the token by owner and token string.
	Retrieve(ctx context.Context, owner, token string) (Token, error)
}

// Repository specifies the session persistence API. Save must enforce
// the at-most-one-active-session-per-connector invariant atomically
// with the insert.
//
//go:generate mockery --name Repository --output=./mocks --filename repository.go --quiet --note "Copyright (c) Abstract Machines"
type Repository interface {
	// Save inserts the session and returns it with the storage-assigned
	// transaction ID.
	Save(ctx context.Context, session Session) (Session, error)

	// RetrieveByID returns the session with the given ID.
	RetrieveByID(ctx context.Context, id string) (Session, error)

	// RetrieveActive returns the active session on the connector.
	RetrieveActive(ctx context.Context, chargePointID string, connectorID int) (Session, error)

	// RetrieveByTransaction returns the session of the charge point
	// with the given transaction ID.
	RetrieveByTransaction(ctx context.Context, chargePointID string, transactionID int64) (Session, error)

	// Update overwrites the end fields of a session.
	Update(ctx context.Context, session Session) error

	// DeletePostedBefore removes ended sessions posted before the
	// cutoff, together with their readings, and reports how many were
	// removed.
	DeletePostedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReadingRepository specifies the reading persistence API.
//
//go:generate mockery --name ReadingRepository --output=./mocks --filename readings.go --quiet --note "Copyright (c) Abstract Machines"
type ReadingRepository interface {
	// Save persists the readings in one batch.
	Save(ctx context.Context, readings []Reading) error

	// RetrieveBySession returns all stored readings of a session.
	RetrieveBySession(ctx context.Context, sessionID string) ([]Reading, error)
}
