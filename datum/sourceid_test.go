// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package datum_test

import (
	"fmt"
	"testing"

	"github.com/absmach/csms/datum"
	"github.com/stretchr/testify/assert"
)

func TestSourceID(t *testing.T) {
	params := datum.SourceIDParams{
		DeviceIdentifier: "CP-0001",
		DeviceID:         "8f14e45f-ceea-467f-a8ef-54aade177e65",
		ConnectorID:      "2",
	}

	cases := []struct {
		desc     string
		template string
		suffix   string
		params   datum.SourceIDParams
		want     string
	}{
		{
			desc:   "default template",
			params: params,
			want:   "/ocpp/CP-0001/2",
		},
		{
			desc:     "custom template",
			template: "/chargers/{deviceId}/{connectorId}",
			params:   params,
			want:     "/chargers/8f14e45f-ceea-467f-a8ef-54aade177e65/2",
		},
		{
			desc:     "empty location segment pruned",
			template: "/ocpp/{deviceIdentifier}/{location}/{connectorId}",
			params:   params,
			want:     "/ocpp/CP-0001/2",
		},
		{
			desc:     "location segment kept when present",
			template: "/ocpp/{deviceIdentifier}/{location}/{connectorId}",
			params: datum.SourceIDParams{
				DeviceIdentifier: "CP-0001",
				ConnectorID:      "2",
				Location:         "garage",
			},
			want: "/ocpp/CP-0001/garage/2",
		},
		{
			desc:     "suffix appended before expansion",
			template: "/ocpp/{deviceIdentifier}",
			suffix:   "/{connectorId}",
			params:   params,
			want:     "/ocpp/CP-0001/2",
		},
		{
			desc:   "empty connector pruned from default",
			params: datum.SourceIDParams{DeviceIdentifier: "CP-0001"},
			want:   "/ocpp/CP-0001",
		},
	}

	for _, tc := range cases {
		got := datum.SourceID(tc.template, tc.suffix, tc.params)
		assert.Equal(t, tc.want, got, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.want, got))
	}
}
