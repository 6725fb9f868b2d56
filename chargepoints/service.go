// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package chargepoints

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
	svcerr "github.com/absmach/csms/pkg/errors/service"
)

// reconfigureDelay coalesces bursts of settings change notifications
// into a single cache rebuild.
const reconfigureDelay = time.Second

var (
	// ErrUnknownChargePoint indicates a registration attempt from a
	// charge point that was never provisioned.
	ErrUnknownChargePoint = errors.New("charge point not provisioned")

	// ErrConfigParse indicates a malformed configuration value reported
	// by a charge point.
	ErrConfigParse = errors.New("malformed configuration value")

	errConfigRead = errors.New("failed to read charge point configuration")
)

// ConfigResult carries the outcome of an asynchronous configuration
// read. Exactly one result is delivered per read.
type ConfigResult struct {
	Keys map[string]string
	Err  error
}

// ConfigReader reads configuration keys from a live charge point. The
// returned channel receives exactly one result; timeouts are owned by
// the underlying transport.
//
//go:generate mockery --name ConfigReader --output=./mocks --filename config_reader.go --quiet --note "Copyright (c) Abstract Machines"
type ConfigReader interface {
	ReadConfiguration(ctx context.Context, identity Identity, keys []string) <-chan ConfigResult
}

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
//
//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// Register handles the registration handshake of a provisioned
	// charge point, reconciling stored metadata with what the device
	// reports and scheduling connector reconciliation.
	Register(ctx context.Context, identity Identity, info Info) (ChargePoint, error)

	// RegistrationAccepted reports whether the charge point is enabled
	// and its registration has been accepted.
	RegistrationAccepted(ctx context.Context, id string) (bool, error)

	// ReconcileConnectors fetches the reported connector count from the
	// device and aligns stored connectors with it.
	ReconcileConnectors(ctx context.Context, identity Identity) error

	// StatusNotification records the latest status of one connector.
	StatusNotification(ctx context.Context, identity Identity, connectorID int, status ConnectorStatus) error

	// Resolve maps a wire identity to its stored charge point.
	Resolve(ctx context.Context, identity Identity) (ChargePoint, error)

	// Get returns the stored charge point with the given ID.
	Get(ctx context.Context, id string) (ChargePoint, error)

	// ResolveSettings returns the effective publish settings of the
	// charge point, falling back to the owner default and finally to
	// built-in defaults.
	ResolveSettings(ctx context.Context, cp ChargePoint) (Settings, error)

	// NotifySettingsChanged schedules a debounced rebuild of resolved
	// settings; bursts of notifications coalesce into one run.
	NotifySettingsChanged()

	// Stop cancels any pending reconfiguration. Safe to call multiple
	// times.
	Stop()
}

var _ Service = (*service)(nil)

type service struct {
	chargePoints Repository
	connectors   ConnectorRepository
	settings     SettingsRepository
	cache        Cache
	config       ConfigReader
	logger       *slog.Logger

	resolvedMu sync.Mutex
	resolved   map[string]Settings

	reconfigMu    sync.Mutex
	reconfigTimer *time.Timer
}

// New instantiates the charge points service implementation.
func New(chargePoints Repository, connectors ConnectorRepository, settings SettingsRepository, cache Cache, config ConfigReader, logger *slog.Logger) Service {
	return &service{
		chargePoints: chargePoints,
		connectors:   connectors,
		settings:     settings,
		cache:        cache,
		config:       config,
		logger:       logger,
		resolved:     map[string]Settings{},
	}
}

func (svc *service) Register(ctx context.Context, identity Identity, info Info) (ChargePoint, error) {
	cp, err := svc.chargePoints.RetrieveByIdentity(ctx, identity)
	if err != nil {
		return ChargePoint{}, errors.Wrap(ErrUnknownChargePoint, err)
	}

	if cp.Enabled && cp.Info != info {
		cp.Info = info
		if err := svc.chargePoints.Update(ctx, cp); err != nil {
			return ChargePoint{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
		}
	}

	if err := svc.cache.Save(ctx, identity, cp.ID); err != nil {
		svc.logger.Warn("failed to cache charge point identity", slog.String("identifier", identity.Identifier), slog.Any("error", err))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := svc.ReconcileConnectors(ctx, identity); err != nil {
			svc.logger.Warn("connector reconciliation skipped", slog.String("identifier", identity.Identifier), slog.Any("error", err))
		}
	}()

	return cp, nil
}

func (svc *service) RegistrationAccepted(ctx context.Context, id string) (bool, error) {
	cp, err := svc.chargePoints.RetrieveByID(ctx, id)
	if err != nil {
		return false, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	return cp.Enabled && cp.Registration == Accepted, nil
}

func (svc *service) ReconcileConnectors(ctx context.Context, identity Identity) error {
	cp, err := svc.chargePoints.RetrieveByIdentity(ctx, identity)
	if err != nil {
		return errors.Wrap(ErrUnknownChargePoint, err)
	}

	res := <-svc.config.ReadConfiguration(ctx, identity, []string{ocpp.KeyNumberOfConnectors})
	if res.Err != nil {
		return errors.Wrap(errConfigRead, res.Err)
	}

	raw, ok := res.Keys[ocpp.KeyNumberOfConnectors]
	if !ok {
		return errors.Wrap(ErrConfigParse, errors.New(ocpp.KeyNumberOfConnectors+" key missing"))
	}
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return errors.Wrap(ErrConfigParse, errors.New(ocpp.KeyNumberOfConnectors+" = "+raw))
	}

	if count != cp.ConnectorCount {
		cp.ConnectorCount = count
		if err := svc.chargePoints.Update(ctx, cp); err != nil {
			return errors.Wrap(svcerr.ErrUpdateEntity, err)
		}
	}

	if err := svc.connectors.Reconcile(ctx, cp.ID, count); err != nil {
		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return nil
}

func (svc *service) StatusNotification(ctx context.Context, identity Identity, connectorID int, status ConnectorStatus) error {
	cp, err := svc.Resolve(ctx, identity)
	if err != nil {
		return err
	}

	conn := Connector{
		ChargePointID: cp.ID,
		Index:         connectorID,
		Status:        status,
	}
	if err := svc.connectors.Save(ctx, conn); err != nil {
		return errors.Wrap(svcerr.ErrUpdateEntity, err)
	}

	return nil
}

func (svc *service) Resolve(ctx context.Context, identity Identity) (ChargePoint, error) {
	if id, err := svc.cache.ID(ctx, identity); err == nil && id != "" {
		cp, err := svc.chargePoints.RetrieveByID(ctx, id)
		if err == nil {
			return cp, nil
		}
		if err := svc.cache.Remove(ctx, identity); err != nil {
			svc.logger.Warn("failed to evict stale charge point identity", slog.String("identifier", identity.Identifier), slog.Any("error", err))
		}
	}

	cp, err := svc.chargePoints.RetrieveByIdentity(ctx, identity)
	if err != nil {
		return ChargePoint{}, errors.Wrap(ErrUnknownChargePoint, err)
	}
	if err := svc.cache.Save(ctx, identity, cp.ID); err != nil {
		svc.logger.Warn("failed to cache charge point identity", slog.String("identifier", identity.Identifier), slog.Any("error", err))
	}

	return cp, nil
}

func (svc *service) Get(ctx context.Context, id string) (ChargePoint, error) {
	cp, err := svc.chargePoints.RetrieveByID(ctx, id)
	if err != nil {
		return ChargePoint{}, errors.Wrap(ErrUnknownChargePoint, err)
	}

	return cp, nil
}

func (svc *service) ResolveSettings(ctx context.Context, cp ChargePoint) (Settings, error) {
	svc.resolvedMu.Lock()
	if s, ok := svc.resolved[cp.ID]; ok {
		svc.resolvedMu.Unlock()
		return s, nil
	}
	svc.resolvedMu.Unlock()

	s, err := svc.settings.Retrieve(ctx, cp.ID)
	if err != nil {
		s, err = svc.settings.RetrieveDefault(ctx, cp.Owner)
	}
	if err != nil {
		s = Settings{
			Owner:            cp.Owner,
			Publish:          true,
			SourceIDTemplate: datum.DefaultSourceIDTemplate,
		}
	}
	if s.SourceIDTemplate == "" {
		s.SourceIDTemplate = datum.DefaultSourceIDTemplate
	}

	svc.resolvedMu.Lock()
	svc.resolved[cp.ID] = s
	svc.resolvedMu.Unlock()

	return s, nil
}

func (svc *service) NotifySettingsChanged() {
	svc.reconfigMu.Lock()
	defer svc.reconfigMu.Unlock()

	if svc.reconfigTimer != nil {
		svc.reconfigTimer.Stop()
	}
	svc.reconfigTimer = time.AfterFunc(reconfigureDelay, svc.reconfigure)
}

func (svc *service) Stop() {
	svc.reconfigMu.Lock()
	defer svc.reconfigMu.Unlock()

	if svc.reconfigTimer != nil {
		svc.reconfigTimer.Stop()
		svc.reconfigTimer = nil
	}
}

func (svc *service) reconfigure() {
	svc.resolvedMu.Lock()
	n := len(svc.resolved)
	svc.resolved = map[string]Settings{}
	svc.resolvedMu.Unlock()

	svc.logger.Info("publish settings cache rebuilt", slog.Int("evicted", n))
}
