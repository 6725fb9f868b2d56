// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package chargepoints_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/absmach/csms/chargepoints"
	"github.com/absmach/csms/chargepoints/mocks"
	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/internal/testsutil"
	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
	repoerr "github.com/absmach/csms/pkg/errors/repository"
	svcerr "github.com/absmach/csms/pkg/errors/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	identity = chargepoints.Identity{Owner: "owner@example.com", Identifier: "CP-0001"}
	info     = chargepoints.Info{Vendor: "VendorX", Model: "ModelY", FirmwareVersion: "1.2.3"}
)

func newService() (chargepoints.Service, *mocks.Repository, *mocks.ConnectorRepository, *mocks.SettingsRepository, *mocks.Cache, *mocks.ConfigReader) {
	repo := new(mocks.Repository)
	connectors := new(mocks.ConnectorRepository)
	settings := new(mocks.SettingsRepository)
	cache := new(mocks.Cache)
	reader := new(mocks.ConfigReader)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	svc := chargepoints.New(repo, connectors, settings, cache, reader, logger)

	return svc, repo, connectors, settings, cache, reader
}

func TestRegister(t *testing.T) {
	stored := chargepoints.ChargePoint{
		ID:           testsutil.GenerateUUID(t),
		Owner:        identity.Owner,
		Identifier:   identity.Identifier,
		Info:         chargepoints.Info{Vendor: "VendorX", Model: "ModelY"},
		Registration: chargepoints.Accepted,
		Enabled:      true,
	}

	cases := []struct {
		desc        string
		identity    chargepoints.Identity
		info        chargepoints.Info
		retrieveErr error
		updateErr   error
		wantUpdate  bool
		err         error
	}{
		{
			desc:       "register known charge point with changed info",
			identity:   identity,
			info:       info,
			wantUpdate: true,
			err:        nil,
		},
		{
			desc:     "register known charge point with unchanged info",
			identity: identity,
			info:     stored.Info,
			err:      nil,
		},
		{
			desc:        "register unknown charge point",
			identity:    chargepoints.Identity{Owner: identity.Owner, Identifier: "CP-GHOST"},
			info:        info,
			retrieveErr: repoerr.ErrNotFound,
			err:         chargepoints.ErrUnknownChargePoint,
		},
		{
			desc:       "register with failing update",
			identity:   identity,
			info:       info,
			updateErr:  repoerr.ErrUpdateEntity,
			wantUpdate: true,
			err:        svcerr.ErrUpdateEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, repo, connectors, _, cache, reader := newService()

			repo.On("RetrieveByIdentity", mock.Anything, tc.identity).Return(stored, tc.retrieveErr)
			updated := stored
			updated.Info = tc.info
			repo.On("Update", mock.Anything, updated).Return(tc.updateErr)
			cache.On("Save", mock.Anything, tc.identity, stored.ID).Return(nil)
			reader.On("ReadConfiguration", mock.Anything, mock.Anything, mock.Anything).Return(mocks.Result(chargepoints.ConfigResult{Err: errors.New("offline")}))

			cp, err := svc.Register(context.Background(), tc.identity, tc.info)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.err, err))
			if tc.err == nil {
				assert.Equal(t, stored.ID, cp.ID, tc.desc)
				if tc.wantUpdate {
					repo.AssertCalled(t, "Update", mock.Anything, updated)
				} else {
					repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				}
			}
			_ = connectors
		})
	}
}

func TestRegistrationAccepted(t *testing.T) {
	id := testsutil.GenerateUUID(t)

	cases := []struct {
		desc         string
		cp           chargepoints.ChargePoint
		retrieveErr  error
		accepted     bool
		err          error
	}{
		{
			desc:     "enabled and accepted",
			cp:       chargepoints.ChargePoint{ID: id, Enabled: true, Registration: chargepoints.Accepted},
			accepted: true,
		},
		{
			desc:     "enabled but pending",
			cp:       chargepoints.ChargePoint{ID: id, Enabled: true, Registration: chargepoints.Pending},
			accepted: false,
		},
		{
			desc:     "accepted but disabled",
			cp:       chargepoints.ChargePoint{ID: id, Enabled: false, Registration: chargepoints.Accepted},
			accepted: false,
		},
		{
			desc:        "unknown charge point",
			retrieveErr: repoerr.ErrNotFound,
			err:         svcerr.ErrViewEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, repo, _, _, _, _ := newService()

			repoCall := repo.On("RetrieveByID", mock.Anything, id).Return(tc.cp, tc.retrieveErr)

			accepted, err := svc.RegistrationAccepted(context.Background(), id)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.err, err))
			assert.Equal(t, tc.accepted, accepted, tc.desc)

			repoCall.Unset()
		})
	}
}

func TestReconcileConnectors(t *testing.T) {
	stored := chargepoints.ChargePoint{
		ID:             testsutil.GenerateUUID(t),
		Owner:          identity.Owner,
		Identifier:     identity.Identifier,
		ConnectorCount: 2,
		Enabled:        true,
	}

	cases := []struct {
		desc          string
		result        chargepoints.ConfigResult
		wantCount     int
		wantUpdate    bool
		reconcileErr  error
		err           error
	}{
		{
			desc:       "count grows",
			result:     chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: "3"}},
			wantCount:  3,
			wantUpdate: true,
		},
		{
			desc:      "count unchanged",
			result:    chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: "2"}},
			wantCount: 2,
		},
		{
			desc:       "count with surrounding whitespace",
			result:     chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: " 5 "}},
			wantCount:  5,
			wantUpdate: true,
		},
		{
			desc:   "malformed count",
			result: chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: "two"}},
			err:    chargepoints.ErrConfigParse,
		},
		{
			desc:   "negative count",
			result: chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: "-1"}},
			err:    chargepoints.ErrConfigParse,
		},
		{
			desc:   "key missing from response",
			result: chargepoints.ConfigResult{Keys: map[string]string{}},
			err:    chargepoints.ErrConfigParse,
		},
		{
			desc:   "read failure",
			result: chargepoints.ConfigResult{Err: errors.New("device offline")},
			err:    errors.New("failed to read charge point configuration"),
		},
		{
			desc:         "reconcile failure",
			result:       chargepoints.ConfigResult{Keys: map[string]string{ocpp.KeyNumberOfConnectors: "2"}},
			wantCount:    2,
			reconcileErr: repoerr.ErrUpdateEntity,
			err:          svcerr.ErrUpdateEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, repo, connectors, _, _, reader := newService()

			repoCall := repo.On("RetrieveByIdentity", mock.Anything, identity).Return(stored, nil)
			readerCall := reader.On("ReadConfiguration", mock.Anything, identity, []string{ocpp.KeyNumberOfConnectors}).Return(mocks.Result(tc.result))
			updated := stored
			updated.ConnectorCount = tc.wantCount
			repoCall1 := repo.On("Update", mock.Anything, updated).Return(nil)
			connCall := connectors.On("Reconcile", mock.Anything, stored.ID, tc.wantCount).Return(tc.reconcileErr)

			err := svc.ReconcileConnectors(context.Background(), identity)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.err, err))
			if tc.err == nil {
				connectors.AssertCalled(t, "Reconcile", mock.Anything, stored.ID, tc.wantCount)
				if tc.wantUpdate {
					repo.AssertCalled(t, "Update", mock.Anything, updated)
				} else {
					repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				}
			}

			repoCall.Unset()
			readerCall.Unset()
			repoCall1.Unset()
			connCall.Unset()
		})
	}
}

func TestStatusNotification(t *testing.T) {
	stored := chargepoints.ChargePoint{
		ID:         testsutil.GenerateUUID(t),
		Owner:      identity.Owner,
		Identifier: identity.Identifier,
		Enabled:    true,
	}
	status := chargepoints.ConnectorStatus{
		Status:    ocpp.StatusCharging,
		ErrorCode: ocpp.ErrorNone,
		Timestamp: time.Now().UTC(),
	}

	cases := []struct {
		desc        string
		retrieveErr error
		saveErr     error
		err         error
	}{
		{
			desc: "status saved",
		},
		{
			desc:        "unknown charge point",
			retrieveErr: repoerr.ErrNotFound,
			err:         chargepoints.ErrUnknownChargePoint,
		},
		{
			desc:    "save failure",
			saveErr: repoerr.ErrUpdateEntity,
			err:     svcerr.ErrUpdateEntity,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, repo, connectors, _, cache, _ := newService()

			cacheCall := cache.On("ID", mock.Anything, identity).Return("", repoerr.ErrNotFound)
			cacheCall1 := cache.On("Save", mock.Anything, identity, stored.ID).Return(nil)
			repoCall := repo.On("RetrieveByIdentity", mock.Anything, identity).Return(stored, tc.retrieveErr)
			connCall := connectors.On("Save", mock.Anything, chargepoints.Connector{
				ChargePointID: stored.ID,
				Index:         1,
				Status:        status,
			}).Return(tc.saveErr)

			err := svc.StatusNotification(context.Background(), identity, 1, status)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.err, err))

			cacheCall.Unset()
			cacheCall1.Unset()
			repoCall.Unset()
			connCall.Unset()
		})
	}
}

func TestResolve(t *testing.T) {
	stored := chargepoints.ChargePoint{
		ID:         testsutil.GenerateUUID(t),
		Owner:      identity.Owner,
		Identifier: identity.Identifier,
		Enabled:    true,
	}

	t.Run("cache hit skips identity lookup", func(t *testing.T) {
		svc, repo, _, _, cache, _ := newService()

		cache.On("ID", mock.Anything, identity).Return(stored.ID, nil)
		repo.On("RetrieveByID", mock.Anything, stored.ID).Return(stored, nil)

		cp, err := svc.Resolve(context.Background(), identity)
		assert.NoError(t, err)
		assert.Equal(t, stored, cp)
		repo.AssertNotCalled(t, "RetrieveByIdentity", mock.Anything, mock.Anything)
	})

	t.Run("cache miss falls back to identity lookup", func(t *testing.T) {
		svc, repo, _, _, cache, _ := newService()

		cache.On("ID", mock.Anything, identity).Return("", repoerr.ErrNotFound)
		cache.On("Save", mock.Anything, identity, stored.ID).Return(nil)
		repo.On("RetrieveByIdentity", mock.Anything, identity).Return(stored, nil)

		cp, err := svc.Resolve(context.Background(), identity)
		assert.NoError(t, err)
		assert.Equal(t, stored, cp)
		cache.AssertCalled(t, "Save", mock.Anything, identity, stored.ID)
	})

	t.Run("stale cache entry is evicted", func(t *testing.T) {
		svc, repo, _, _, cache, _ := newService()

		cache.On("ID", mock.Anything, identity).Return("gone", nil)
		repo.On("RetrieveByID", mock.Anything, "gone").Return(chargepoints.ChargePoint{}, repoerr.ErrNotFound)
		cache.On("Remove", mock.Anything, identity).Return(nil)
		cache.On("Save", mock.Anything, identity, stored.ID).Return(nil)
		repo.On("RetrieveByIdentity", mock.Anything, identity).Return(stored, nil)

		cp, err := svc.Resolve(context.Background(), identity)
		assert.NoError(t, err)
		assert.Equal(t, stored, cp)
		cache.AssertCalled(t, "Remove", mock.Anything, identity)
	})

	t.Run("unknown identity", func(t *testing.T) {
		svc, repo, _, _, cache, _ := newService()

		cache.On("ID", mock.Anything, identity).Return("", repoerr.ErrNotFound)
		repo.On("RetrieveByIdentity", mock.Anything, identity).Return(chargepoints.ChargePoint{}, repoerr.ErrNotFound)

		_, err := svc.Resolve(context.Background(), identity)
		assert.True(t, errors.Contains(err, chargepoints.ErrUnknownChargePoint), fmt.Sprintf("expected %v got %v", chargepoints.ErrUnknownChargePoint, err))
	})
}

func TestGet(t *testing.T) {
	stored := chargepoints.ChargePoint{
		ID:         testsutil.GenerateUUID(t),
		Owner:      identity.Owner,
		Identifier: identity.Identifier,
		Enabled:    true,
	}

	t.Run("stored charge point", func(t *testing.T) {
		svc, repo, _, _, _, _ := newService()

		repo.On("RetrieveByID", mock.Anything, stored.ID).Return(stored, nil)

		cp, err := svc.Get(context.Background(), stored.ID)
		assert.NoError(t, err)
		assert.Equal(t, stored, cp)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, repo, _, _, _, _ := newService()

		repo.On("RetrieveByID", mock.Anything, "missing").Return(chargepoints.ChargePoint{}, repoerr.ErrNotFound)

		_, err := svc.Get(context.Background(), "missing")
		assert.True(t, errors.Contains(err, chargepoints.ErrUnknownChargePoint), fmt.Sprintf("expected %v got %v", chargepoints.ErrUnknownChargePoint, err))
	})
}

func TestResolveSettings(t *testing.T) {
	cp := chargepoints.ChargePoint{
		ID:    testsutil.GenerateUUID(t),
		Owner: identity.Owner,
	}
	perDevice := chargepoints.Settings{
		ChargePointID:    cp.ID,
		Owner:            cp.Owner,
		Publish:          true,
		Stream:           true,
		SourceIDTemplate: "/site/{deviceIdentifier}/{connectorId}",
	}
	ownerDefault := chargepoints.Settings{
		Owner:   cp.Owner,
		Publish: true,
	}

	cases := []struct {
		desc        string
		settings    chargepoints.Settings
		err         error
		defSettings chargepoints.Settings
		defErr      error
		want        chargepoints.Settings
	}{
		{
			desc:     "per-device settings win",
			settings: perDevice,
			want:     perDevice,
		},
		{
			desc:        "owner default fills the template",
			err:         repoerr.ErrNotFound,
			defSettings: ownerDefault,
			want: chargepoints.Settings{
				Owner:            cp.Owner,
				Publish:          true,
				SourceIDTemplate: datum.DefaultSourceIDTemplate,
			},
		},
		{
			desc:   "builtin default when nothing stored",
			err:    repoerr.ErrNotFound,
			defErr: repoerr.ErrNotFound,
			want: chargepoints.Settings{
				Owner:            cp.Owner,
				Publish:          true,
				SourceIDTemplate: datum.DefaultSourceIDTemplate,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc, _, _, settings, _, _ := newService()

			settings.On("Retrieve", mock.Anything, cp.ID).Return(tc.settings, tc.err)
			settings.On("RetrieveDefault", mock.Anything, cp.Owner).Return(tc.defSettings, tc.defErr)

			got, err := svc.ResolveSettings(context.Background(), cp)
			assert.NoError(t, err, tc.desc)
			assert.Equal(t, tc.want, got, tc.desc)

			// Second resolve is served from the in-memory cache.
			got, err = svc.ResolveSettings(context.Background(), cp)
			assert.NoError(t, err, tc.desc)
			assert.Equal(t, tc.want, got, tc.desc)
			settings.AssertNumberOfCalls(t, "Retrieve", 1)
		})
	}
}

func TestNotifySettingsChanged(t *testing.T) {
	cp := chargepoints.ChargePoint{ID: testsutil.GenerateUUID(t), Owner: identity.Owner}
	first := chargepoints.Settings{ChargePointID: cp.ID, Owner: cp.Owner, Publish: true, SourceIDTemplate: datum.DefaultSourceIDTemplate}
	second := first
	second.Stream = true

	svc, _, _, settings, _, _ := newService()
	defer svc.Stop()

	call := settings.On("Retrieve", mock.Anything, cp.ID).Return(first, nil)

	got, err := svc.ResolveSettings(context.Background(), cp)
	assert.NoError(t, err)
	assert.Equal(t, first, got)

	call.Unset()
	settings.On("Retrieve", mock.Anything, cp.ID).Return(second, nil)

	// A burst of notifications coalesces into one rebuild after the
	// debounce window.
	svc.NotifySettingsChanged()
	svc.NotifySettingsChanged()
	svc.NotifySettingsChanged()

	// Before the window elapses the stale value is still served.
	got, err = svc.ResolveSettings(context.Background(), cp)
	assert.NoError(t, err)
	assert.Equal(t, first, got)

	assert.Eventually(t, func() bool {
		got, err := svc.ResolveSettings(context.Background(), cp)

		return err == nil && got == second
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStop(t *testing.T) {
	svc, _, _, _, _, _ := newService()

	svc.NotifySettingsChanged()
	svc.Stop()
	svc.Stop()
}
