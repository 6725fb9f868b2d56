// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/absmach/csms"
	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	svcerr "github.com/absmach/csms/pkg/errors/service"
	"github.com/absmach/csms/pkg/messaging"
	"github.com/absmach/csms/pkg/ticker"
)

const protocol = "ocpp"

// StartRequest carries the parameters of a session start.
type StartRequest struct {
	// SessionID is the pre-generated session ID; one is generated when
	// empty.
	SessionID   string
	Identity    chargepoints.Identity
	ConnectorID int
	Token       string
	Timestamp   time.Time
	MeterStart  int64
}

// EndRequest carries the parameters of a session end.
type EndRequest struct {
	Identity      chargepoints.Identity
	TransactionID int64
	Token         string
	Timestamp     time.Time
	MeterStop     int64
	Reason        string

	// TransactionData holds the readings sampled during the
	// transaction, delivered with the stop request.
	TransactionData []Reading
}

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
//
//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// StartSession authorizes the token and opens a session on the
	// connector. At most one active session may exist per connector.
	StartSession(ctx context.Context, req StartRequest) (Session, error)

	// EndSession ends the active session resolved by transaction ID and
	// ingests the final reading set. Ended sessions cannot be ended
	// again.
	EndSession(ctx context.Context, req EndRequest) error

	// AddReadings ingests meter values outside the start/end flow. The
	// readings are attached to the session of the given transaction ID
	// when it is non-zero.
	AddReadings(ctx context.Context, identity chargepoints.Identity, connectorID int, transactionID int64, readings []Reading) error

	// Start launches the background purge of posted sessions past the
	// retention horizon. Idempotent.
	Start()

	// Stop cancels the purge task. Idempotent; no task outlives the
	// service. The ticker keeps running so a later Start resumes the
	// purge; its lifecycle belongs to the caller.
	Stop()
}

var _ Service = (*service)(nil)

type service struct {
	sessions  Repository
	readings  ReadingRepository
	auth      Authorizer
	devices   chargepoints.Service
	store     datum.Repository
	publisher messaging.Publisher
	idp       csms.IDProvider
	tick      ticker.Ticker
	horizon   time.Duration
	maxScale  int
	logger    *slog.Logger

	purgeMu   sync.Mutex
	purgeDone chan struct{}
}

// New instantiates the sessions service implementation. The horizon is
// the retention period of posted sessions; the ticker drives the purge
// loop.
func New(sessions Repository, readings ReadingRepository, auth Authorizer, devices chargepoints.Service, store datum.Repository, publisher messaging.Publisher, idp csms.IDProvider, tick ticker.Ticker, horizon time.Duration, maxScale int, logger *slog.Logger) Service {
	return &service{
		sessions:  sessions,
		readings:  readings,
		auth:      auth,
		devices:   devices,
		store:     store,
		publisher: publisher,
		idp:       idp,
		tick:      tick,
		horizon:   horizon,
		maxScale:  maxScale,
		logger:    logger,
	}
}

func (svc *service) StartSession(ctx context.Context, req StartRequest) (Session, error) {
	status, err := svc.auth.Authorize(ctx, req.Identity.Owner, req.Token)
	if err != nil {
		return Session{}, errors.Wrap(ErrInvalid, err)
	}
	if status != Accepted {
		return Session{}, status.Err()
	}

	cp, err := svc.devices.Resolve(ctx, req.Identity)
	if err != nil {
		return Session{}, errors.Wrap(ErrInvalid, err)
	}
	if !cp.Enabled {
		return Session{}, errors.Wrap(ErrInvalid, errors.New("charge point disabled"))
	}

	if _, err := svc.sessions.RetrieveActive(ctx, cp.ID, req.ConnectorID); err == nil {
		return Session{}, ErrConcurrentTx
	}

	id := req.SessionID
	if id == "" {
		id, err = svc.idp.ID()
		if err != nil {
			return Session{}, errors.Wrap(svcerr.ErrUniqueID, err)
		}
	}
	started := req.Timestamp
	if started.IsZero() {
		started = time.Now().UTC()
	}
	session := Session{
		ID:            id,
		ChargePointID: cp.ID,
		ConnectorID:   req.ConnectorID,
		Token:         req.Token,
		Started:       started,
	}
	saved, err := svc.sessions.Save(ctx, session)
	switch {
	case err == nil:
	case errors.Contains(err, repoerr.ErrConflict):
		// Lost the race for the connector to a concurrent start.
		return Session{}, errors.Wrap(ErrConcurrentTx, err)
	default:
		// Integrity violations on start surface as Invalid, keeping the
		// authorization taxonomy the single external error channel.
		return Session{}, errors.Wrap(ErrInvalid, err)
	}

	begin := Reading{
		SessionID: saved.ID,
		Context:   ocpp.ContextTransactionBegin,
		Timestamp: started,
		Measurand: ocpp.MeasurandEnergyActiveImportRegister,
		Unit:      ocpp.UnitWh,
		Value:     strconv.FormatInt(req.MeterStart, 10),
	}
	if err := svc.ingest(ctx, cp, req.ConnectorID, []Reading{begin}, map[string]Session{saved.ID: saved}); err != nil {
		svc.logger.Warn("failed to ingest session start reading", slog.String("session_id", saved.ID), slog.Any("error", err))
	}

	return saved, nil
}

func (svc *service) EndSession(ctx context.Context, req EndRequest) error {
	cp, err := svc.devices.Resolve(ctx, req.Identity)
	if err != nil {
		return errors.Wrap(ErrInvalid, err)
	}

	session, err := svc.sessions.RetrieveByTransaction(ctx, cp.ID, req.TransactionID)
	if err != nil {
		return errors.Wrap(ErrInvalid, err)
	}
	if !session.Active() {
		return errors.Wrap(ErrInvalid, errors.New("session already ended"))
	}

	ended := req.Timestamp
	if ended.IsZero() {
		ended = time.Now().UTC()
	}
	session.EndToken = req.Token
	if session.EndToken == "" {
		session.EndToken = session.Token
	}
	session.Ended = ended
	session.EndReason = req.Reason
	session.Posted = time.Now().UTC()
	if err := svc.sessions.Update(ctx, session); err != nil {
		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	final := make([]Reading, 0, len(req.TransactionData)+1)
	for _, r := range req.TransactionData {
		r.SessionID = session.ID
		final = append(final, r)
	}
	final = append(final, Reading{
		SessionID: session.ID,
		Context:   ocpp.ContextTransactionEnd,
		Timestamp: ended,
		Measurand: ocpp.MeasurandEnergyActiveImportRegister,
		Unit:      ocpp.UnitWh,
		Value:     strconv.FormatInt(req.MeterStop, 10),
	})

	return svc.ingest(ctx, cp, session.ConnectorID, final, map[string]Session{session.ID: session})
}

func (svc *service) AddReadings(ctx context.Context, identity chargepoints.Identity, connectorID int, transactionID int64, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}

	cp, err := svc.devices.Resolve(ctx, identity)
	if err != nil {
		return errors.Wrap(ErrInvalid, err)
	}

	known := map[string]Session{}
	if transactionID != 0 {
		if session, err := svc.sessions.RetrieveByTransaction(ctx, cp.ID, transactionID); err == nil {
			known[session.ID] = session
			for i := range readings {
				readings[i].SessionID = session.ID
			}
		}
	}

	return svc.ingest(ctx, cp, connectorID, readings, known)
}

// ingest runs the shared reading pipeline: order, deduplicate against
// stored readings, persist in one batch, then fold readings into datums
// keeping one open datum per resolved source ID.
func (svc *service) ingest(ctx context.Context, cp chargepoints.ChargePoint, fallbackConnector int, readings []Reading, known map[string]Session) error {
	if len(readings) == 0 {
		return nil
	}

	settings, err := svc.devices.ResolveSettings(ctx, cp)
	if err != nil {
		return errors.Wrap(svcerr.ErrViewEntity, err)
	}

	sort.SliceStable(readings, func(i, j int) bool {
		if !readings[i].Timestamp.Equal(readings[j].Timestamp) {
			return readings[i].Timestamp.Before(readings[j].Timestamp)
		}
		return readings[i].Context.Order() < readings[j].Context.Order()
	})

	// One stored-readings fetch per session group; session-less readings
	// are deduplicated within the batch only.
	stored := map[string][]Reading{}
	fresh := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.SessionID != "" {
			if _, ok := stored[r.SessionID]; !ok {
				prev, err := svc.readings.RetrieveBySession(ctx, r.SessionID)
				if err != nil {
					return errors.Wrap(svcerr.ErrViewEntity, err)
				}
				stored[r.SessionID] = prev
			}
		}
		if contains(stored[r.SessionID], r) || contains(fresh, r) {
			continue
		}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := svc.readings.Save(ctx, fresh); err != nil {
		return errors.Wrap(svcerr.ErrCreateEntity, err)
	}

	open := map[string]*datum.Datum{}
	for _, r := range fresh {
		connector := fallbackConnector
		var owner *Session
		if r.SessionID != "" {
			session, ok := known[r.SessionID]
			if !ok {
				session, err = svc.sessions.RetrieveByID(ctx, r.SessionID)
				if err != nil {
					return errors.Wrap(svcerr.ErrViewEntity, err)
				}
				known[r.SessionID] = session
			}
			owner = &session
			connector = session.ConnectorID
		}

		sourceID := datum.SourceID(settings.SourceIDTemplate, "", datum.SourceIDParams{
			DeviceIdentifier: cp.Identifier,
			DeviceID:         cp.ID,
			ConnectorID:      strconv.Itoa(connector),
			Location:         string(r.Location),
		})

		cur, ok := open[sourceID]
		if ok && !cur.Timestamp.Equal(r.Timestamp) {
			svc.publish(ctx, *cur, cp, settings)
			ok = false
		}
		if !ok {
			cur = datum.New(r.Timestamp, sourceID, cp.NodeID)
			open[sourceID] = cur
		}
		svc.merge(cur, r, owner)
	}
	for _, d := range open {
		svc.publish(ctx, *d, cp, settings)
	}

	return nil
}

func (svc *service) merge(d *datum.Datum, r Reading, owner *Session) {
	name, err := datum.PropertyName(r.Measurand, r.Phase)
	switch err {
	case nil:
		v, err := datum.ParseValue(r.Value)
		if err != nil {
			svc.logger.Warn("skipping malformed reading value", slog.String("measurand", string(r.Measurand)), slog.String("value", r.Value))
			break
		}
		d.Put(name, datum.Property{
			Value:          datum.NormalizeValue(r.Unit, v, svc.maxScale),
			Classification: datum.Classify(r.Measurand),
		})
	default:
		svc.logger.Debug("skipping reading with unsupported measurand", slog.String("measurand", string(r.Measurand)))
	}

	if owner == nil {
		return
	}
	switch r.Context {
	case ocpp.ContextTransactionBegin:
		d.Put("sessionId", datum.Property{StringValue: owner.ID, Classification: datum.Status})
		d.Put("transactionId", datum.Property{Value: float64(owner.TransactionID), Classification: datum.Instantaneous})
		d.Put("token", datum.Property{StringValue: owner.Token, Classification: datum.Status})
	case ocpp.ContextTransactionEnd:
		if !owner.Ended.IsZero() {
			d.Put("duration", datum.Property{
				Value:          owner.Ended.Sub(owner.Started).Seconds(),
				Classification: datum.Instantaneous,
			})
		}
	}
}

// publish hands the datum to the primary store and the stream,
// independently gated by the resolved settings. Sink failures are
// logged, not propagated: the readings are already committed.
func (svc *service) publish(ctx context.Context, d datum.Datum, cp chargepoints.ChargePoint, settings chargepoints.Settings) {
	if settings.Publish {
		if err := svc.store.Store(ctx, d); err != nil {
			svc.logger.Warn("failed to store datum", slog.String("source_id", d.SourceID), slog.Any("error", err))
		}
	}

	if !settings.Stream {
		return
	}
	payload, err := d.EncodeSenML()
	if err != nil {
		svc.logger.Warn("failed to encode datum", slog.String("source_id", d.SourceID), slog.Any("error", err))
		return
	}
	msg := &messaging.Message{
		Channel:   settings.Owner,
		Subtopic:  subtopic(d.SourceID),
		Publisher: cp.ID,
		Protocol:  protocol,
		Payload:   payload,
		Created:   time.Now().UnixNano(),
	}
	if err := svc.publisher.Publish(ctx, msg.Channel, msg); err != nil {
		svc.logger.Warn("failed to stream datum", slog.String("source_id", d.SourceID), slog.Any("error", err))
	}
}

func (svc *service) Start() {
	svc.purgeMu.Lock()
	defer svc.purgeMu.Unlock()

	if svc.purgeDone != nil {
		return
	}
	done := make(chan struct{})
	svc.purgeDone = done
	go svc.purge(done)
}

func (svc *service) Stop() {
	svc.purgeMu.Lock()
	defer svc.purgeMu.Unlock()

	if svc.purgeDone == nil {
		return
	}
	close(svc.purgeDone)
	svc.purgeDone = nil
}

func (svc *service) purge(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-svc.tick.Tick():
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := svc.sessions.DeletePostedBefore(ctx, time.Now().Add(-svc.horizon))
			cancel()
			if err != nil {
				svc.logger.Warn("session purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				svc.logger.Info("purged posted sessions", slog.Int64("count", n))
			}
		}
	}
}

func contains(readings []Reading, r Reading) bool {
	for _, stored := range readings {
		if stored.Equal(r) {
			return true
		}
	}
	return false
}

func subtopic(sourceID string) string {
	return strings.ReplaceAll(strings.Trim(sourceID, "/"), "/", ".")
}
