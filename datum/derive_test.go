// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package datum_test

import (
	"fmt"
	"testing"

	"github.com/absmach/csms/datum"
	"github.com/absmach/csms/ocpp"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc      string
		measurand ocpp.Measurand
		class     datum.Classification
	}{
		{
			desc:      "active import register accumulates",
			measurand: ocpp.MeasurandEnergyActiveImportRegister,
			class:     datum.Accumulating,
		},
		{
			desc:      "active export register accumulates",
			measurand: ocpp.MeasurandEnergyActiveExportRegister,
			class:     datum.Accumulating,
		},
		{
			desc:      "reactive import register accumulates",
			measurand: ocpp.MeasurandEnergyReactiveImportRegister,
			class:     datum.Accumulating,
		},
		{
			desc:      "reactive export register accumulates",
			measurand: ocpp.MeasurandEnergyReactiveExportRegister,
			class:     datum.Accumulating,
		},
		{
			desc:      "power is instantaneous",
			measurand: ocpp.MeasurandPowerActiveImport,
			class:     datum.Instantaneous,
		},
		{
			desc:      "energy interval is instantaneous",
			measurand: ocpp.MeasurandEnergyActiveImportInterval,
			class:     datum.Instantaneous,
		},
		{
			desc:      "temperature is instantaneous",
			measurand: ocpp.MeasurandTemperature,
			class:     datum.Instantaneous,
		},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.class, datum.Classify(tc.measurand), fmt.Sprintf("%s: unexpected classification", tc.desc))
	}
}

func TestPropertyName(t *testing.T) {
	cases := []struct {
		desc      string
		measurand ocpp.Measurand
		phase     ocpp.Phase
		name      string
		err       error
	}{
		{
			desc:      "energy register without phase",
			measurand: ocpp.MeasurandEnergyActiveImportRegister,
			name:      "wattHours",
		},
		{
			desc:      "power on phase L1",
			measurand: ocpp.MeasurandPowerActiveImport,
			phase:     ocpp.PhaseL1,
			name:      "watts_a",
		},
		{
			desc:      "current on phase L2-N",
			measurand: ocpp.MeasurandCurrentImport,
			phase:     ocpp.PhaseL2N,
			name:      "current_b",
		},
		{
			desc:      "voltage on phase pair L1-L2",
			measurand: ocpp.MeasurandVoltage,
			phase:     ocpp.PhaseL1L2,
			name:      "voltage_ab",
		},
		{
			desc:      "voltage on phase pair L3-L1",
			measurand: ocpp.MeasurandVoltage,
			phase:     ocpp.PhaseL3L1,
			name:      "voltage_ca",
		},
		{
			desc:      "current on neutral",
			measurand: ocpp.MeasurandCurrentImport,
			phase:     ocpp.PhaseN,
			name:      "current_n",
		},
		{
			desc:      "unknown measurand",
			measurand: ocpp.Measurand("Bogus"),
			err:       datum.ErrUnknownMeasurand,
		},
	}

	for _, tc := range cases {
		name, err := datum.PropertyName(tc.measurand, tc.phase)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.err, err))
			continue
		}
		assert.Nil(t, err, fmt.Sprintf("%s: got unexpected error: %s", tc.desc, err))
		assert.Equal(t, tc.name, name, fmt.Sprintf("%s: unexpected property name", tc.desc))
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		desc  string
		unit  ocpp.Unit
		value float64
		scale int
		want  float64
	}{
		{
			desc:  "boiling point Fahrenheit to Celsius",
			unit:  ocpp.UnitFahrenheit,
			value: 212,
			scale: 1,
			want:  100,
		},
		{
			desc:  "Fahrenheit rounding to one decimal",
			unit:  ocpp.UnitFahrenheit,
			value: 70,
			scale: 1,
			want:  21.1,
		},
		{
			desc:  "Fahrenheit unrounded with negative scale",
			unit:  ocpp.UnitFahrenheit,
			value: 70,
			scale: -1,
			want:  (70.0 - 32) * 5 / 9,
		},
		{
			desc:  "Kelvin to Celsius",
			unit:  ocpp.UnitK,
			value: 273.15,
			scale: 2,
			want:  0,
		},
		{
			desc:  "kWh to Wh",
			unit:  ocpp.UnitKWh,
			value: 5,
			scale: 1,
			want:  5000,
		},
		{
			desc:  "kW to W",
			unit:  ocpp.UnitKW,
			value: 7.2,
			scale: 1,
			want:  7200,
		},
		{
			desc:  "kvarh to varh",
			unit:  ocpp.UnitKvarh,
			value: 0.5,
			scale: 1,
			want:  500,
		},
		{
			desc:  "plain Wh passes through",
			unit:  ocpp.UnitWh,
			value: 1234,
			scale: 0,
			want:  1234,
		},
		{
			desc:  "amperes pass through",
			unit:  ocpp.UnitA,
			value: 16.5,
			scale: 0,
			want:  16.5,
		},
	}

	for _, tc := range cases {
		got := datum.NormalizeValue(tc.unit, tc.value, tc.scale)
		assert.InDelta(t, tc.want, got, 1e-9, fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.want, got))
	}
}
