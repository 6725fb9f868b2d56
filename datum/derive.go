// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package datum

import (
	"math"
	"strconv"

	"github.com/absmach/csms/ocpp"
	"github.com/absmach/csms/pkg/errors"
)

// ErrUnknownMeasurand indicates telemetry for a measurand outside the
// supported catalog.
var ErrUnknownMeasurand = errors.New("unsupported measurand")

// accumulating holds the register-type measurands; everything else
// derives an instantaneous property.
var accumulating = map[ocpp.Measurand]struct{}{
	ocpp.MeasurandEnergyActiveExportRegister:   {},
	ocpp.MeasurandEnergyActiveImportRegister:   {},
	ocpp.MeasurandEnergyReactiveExportRegister: {},
	ocpp.MeasurandEnergyReactiveImportRegister: {},
}

// Classify returns the classification of properties derived from the
// given measurand.
func Classify(m ocpp.Measurand) Classification {
	if _, ok := accumulating[m]; ok {
		return Accumulating
	}
	return Instantaneous
}

var propertyNames = map[ocpp.Measurand]string{
	ocpp.MeasurandCurrentExport:                "current",
	ocpp.MeasurandCurrentImport:                "current",
	ocpp.MeasurandCurrentOffered:               "currentOffered",
	ocpp.MeasurandEnergyActiveExportRegister:   "wattHours",
	ocpp.MeasurandEnergyActiveImportRegister:   "wattHours",
	ocpp.MeasurandEnergyReactiveExportRegister: "reactiveEnergy",
	ocpp.MeasurandEnergyReactiveImportRegister: "reactiveEnergy",
	ocpp.MeasurandEnergyActiveExportInterval:   "wattHoursInterval",
	ocpp.MeasurandEnergyActiveImportInterval:   "wattHoursInterval",
	ocpp.MeasurandEnergyReactiveExportInterval: "reactiveEnergyInterval",
	ocpp.MeasurandEnergyReactiveImportInterval: "reactiveEnergyInterval",
	ocpp.MeasurandFrequency:                    "frequency",
	ocpp.MeasurandPowerActiveExport:            "watts",
	ocpp.MeasurandPowerActiveImport:            "watts",
	ocpp.MeasurandPowerFactor:                  "powerFactor",
	ocpp.MeasurandPowerOffered:                 "wattsOffered",
	ocpp.MeasurandPowerReactiveExport:          "reactivePower",
	ocpp.MeasurandPowerReactiveImport:          "reactivePower",
	ocpp.MeasurandRPM:                          "rpm",
	ocpp.MeasurandSoC:                          "soc",
	ocpp.MeasurandTemperature:                  "temp",
	ocpp.MeasurandVoltage:                      "voltage",
}

var phaseSuffixes = map[ocpp.Phase]string{
	ocpp.PhaseN:    "_n",
	ocpp.PhaseL1:   "_a",
	ocpp.PhaseL2:   "_b",
	ocpp.PhaseL3:   "_c",
	ocpp.PhaseL1N:  "_a",
	ocpp.PhaseL2N:  "_b",
	ocpp.PhaseL3N:  "_c",
	ocpp.PhaseL1L2: "_ab",
	ocpp.PhaseL2L3: "_bc",
	ocpp.PhaseL3L1: "_ca",
}

// PropertyName maps a measurand and optional phase to a datum property
// name. The phase suffix is appended only for phases that carry one.
func PropertyName(m ocpp.Measurand, p ocpp.Phase) (string, error) {
	name, ok := propertyNames[m]
	if !ok {
		return "", ErrUnknownMeasurand
	}
	if s, ok := phaseSuffixes[p]; ok {
		name += s
	}
	return name, nil
}

type conversion struct {
	convert func(float64) float64
	round   bool
}

// conversions normalizes units to the base units used by the datum
// stores: temperatures to Celsius, kilo-prefixed electrical units to
// their base unit. Unlisted units pass through unchanged.
var conversions = map[ocpp.Unit]conversion{
	ocpp.UnitFahrenheit: {convert: func(v float64) float64 { return (v - 32) * 5 / 9 }, round: true},
	ocpp.UnitK:          {convert: func(v float64) float64 { return v - 273.15 }, round: true},
	ocpp.UnitKWh:        {convert: kilo},
	ocpp.UnitKW:         {convert: kilo},
	ocpp.UnitKVA:        {convert: kilo},
	ocpp.UnitKvar:       {convert: kilo},
	ocpp.UnitKvarh:      {convert: kilo},
}

func kilo(v float64) float64 {
	return v * 1000
}

// NormalizeValue converts v from the given unit to its base unit.
// Converted temperatures are rounded to at most maxScale decimal
// places; a negative maxScale leaves them unrounded.
func NormalizeValue(u ocpp.Unit, v float64, maxScale int) float64 {
	c, ok := conversions[u]
	if !ok {
		return v
	}
	v = c.convert(v)
	if c.round && maxScale >= 0 {
		p := math.Pow(10, float64(maxScale))
		v = math.Round(v*p) / p
	}
	return v
}

// ParseValue parses the raw telemetry value of a reading.
func ParseValue(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}
