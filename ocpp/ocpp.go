// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package ocpp defines the OCPP 1.6 wire vocabulary shared by the
// central-system services: measurands, units, phases, reading contexts
// and connector statuses. Exact payload encoding is owned by the
// transport layer and is not defined here.
package ocpp

// Measurand is the physical quantity a sampled value represents.
type Measurand string

const (
	MeasurandCurrentExport                Measurand = "Current.Export"
	MeasurandCurrentImport                Measurand = "Current.Import"
	MeasurandCurrentOffered               Measurand = "Current.Offered"
	MeasurandEnergyActiveExportRegister   Measurand = "Energy.Active.Export.Register"
	MeasurandEnergyActiveImportRegister   Measurand = "Energy.Active.Import.Register"
	MeasurandEnergyReactiveExportRegister Measurand = "Energy.Reactive.Export.Register"
	MeasurandEnergyReactiveImportRegister Measurand = "Energy.Reactive.Import.Register"
	MeasurandEnergyActiveExportInterval   Measurand = "Energy.Active.Export.Interval"
	MeasurandEnergyActiveImportInterval   Measurand = "Energy.Active.Import.Interval"
	MeasurandEnergyReactiveExportInterval Measurand = "Energy.Reactive.Export.Interval"
	MeasurandEnergyReactiveImportInterval Measurand = "Energy.Reactive.Import.Interval"
	MeasurandFrequency                    Measurand = "Frequency"
	MeasurandPowerActiveExport            Measurand = "Power.Active.Export"
	MeasurandPowerActiveImport            Measurand = "Power.Active.Import"
	MeasurandPowerFactor                  Measurand = "Power.Factor"
	MeasurandPowerOffered                 Measurand = "Power.Offered"
	MeasurandPowerReactiveExport          Measurand = "Power.Reactive.Export"
	MeasurandPowerReactiveImport          Measurand = "Power.Reactive.Import"
	MeasurandRPM                          Measurand = "RPM"
	MeasurandSoC                          Measurand = "SoC"
	MeasurandTemperature                  Measurand = "Temperature"
	MeasurandVoltage                      Measurand = "Voltage"
)

// Unit is the unit of measure of a sampled value.
type Unit string

const (
	UnitWh         Unit = "Wh"
	UnitKWh        Unit = "kWh"
	UnitVarh       Unit = "varh"
	UnitKvarh      Unit = "kvarh"
	UnitW          Unit = "W"
	UnitKW         Unit = "kW"
	UnitVA         Unit = "VA"
	UnitKVA        Unit = "kVA"
	UnitVar        Unit = "var"
	UnitKvar       Unit = "kvar"
	UnitA          Unit = "A"
	UnitV          Unit = "V"
	UnitCelsius    Unit = "Celsius"
	UnitFahrenheit Unit = "Fahrenheit"
	UnitK          Unit = "K"
	UnitPercent    Unit = "Percent"
)

// Phase is the AC phase a sampled value was measured on.
type Phase string

const (
	PhaseL1   Phase = "L1"
	PhaseL2   Phase = "L2"
	PhaseL3   Phase = "L3"
	PhaseN    Phase = "N"
	PhaseL1N  Phase = "L1-N"
	PhaseL2N  Phase = "L2-N"
	PhaseL3N  Phase = "L3-N"
	PhaseL1L2 Phase = "L1-L2"
	PhaseL2L3 Phase = "L2-L3"
	PhaseL3L1 Phase = "L3-L1"
)

// ReadingContext describes the circumstances a sampled value was taken in.
type ReadingContext string

const (
	ContextInterruptionBegin ReadingContext = "Interruption.Begin"
	ContextInterruptionEnd   ReadingContext = "Interruption.End"
	ContextOther             ReadingContext = "Other"
	ContextSampleClock       ReadingContext = "Sample.Clock"
	ContextSamplePeriodic    ReadingContext = "Sample.Periodic"
	ContextTransactionBegin  ReadingContext = "Transaction.Begin"
	ContextTransactionEnd    ReadingContext = "Transaction.End"
	ContextTrigger           ReadingContext = "Trigger"
)

var contextOrder = map[ReadingContext]int{
	ContextInterruptionBegin: 0,
	ContextInterruptionEnd:   1,
	ContextOther:             2,
	ContextSampleClock:       3,
	ContextSamplePeriodic:    4,
	ContextTransactionBegin:  5,
	ContextTransactionEnd:    6,
	ContextTrigger:           7,
}

// Order returns the declaration rank of the context, used as a sorting
// tie-breaker for readings sharing a timestamp.
func (rc ReadingContext) Order() int {
	if o, ok := contextOrder[rc]; ok {
		return o
	}
	return len(contextOrder)
}

// Location describes where on the charge point a value was measured.
type Location string

const (
	LocationBody   Location = "Body"
	LocationCable  Location = "Cable"
	LocationEV     Location = "EV"
	LocationInlet  Location = "Inlet"
	LocationOutlet Location = "Outlet"
)

// ChargePointStatus is the reported state of a connector.
type ChargePointStatus string

const (
	StatusAvailable     ChargePointStatus = "Available"
	StatusPreparing     ChargePointStatus = "Preparing"
	StatusCharging      ChargePointStatus = "Charging"
	StatusSuspendedEVSE ChargePointStatus = "SuspendedEVSE"
	StatusSuspendedEV   ChargePointStatus = "SuspendedEV"
	StatusFinishing     ChargePointStatus = "Finishing"
	StatusReserved      ChargePointStatus = "Reserved"
	StatusUnavailable   ChargePointStatus = "Unavailable"
	StatusFaulted       ChargePointStatus = "Faulted"
)

// ErrorCode is the reported connector error condition.
type ErrorCode string

const (
	ErrorNone                ErrorCode = "NoError"
	ErrorConnectorLockFail   ErrorCode = "ConnectorLockFailure"
	ErrorEVCommunication     ErrorCode = "EVCommunicationError"
	ErrorGroundFailure       ErrorCode = "GroundFailure"
	ErrorHighTemperature     ErrorCode = "HighTemperature"
	ErrorInternal            ErrorCode = "InternalError"
	ErrorLocalListConflict   ErrorCode = "LocalListConflict"
	ErrorOtherError          ErrorCode = "OtherError"
	ErrorOverCurrentFailure  ErrorCode = "OverCurrentFailure"
	ErrorPowerMeterFailure   ErrorCode = "PowerMeterFailure"
	ErrorPowerSwitchFailure  ErrorCode = "PowerSwitchFailure"
	ErrorReaderFailure       ErrorCode = "ReaderFailure"
	ErrorResetFailure        ErrorCode = "ResetFailure"
	ErrorUnderVoltage        ErrorCode = "UnderVoltage"
	ErrorOverVoltage         ErrorCode = "OverVoltage"
	ErrorWeakSignal          ErrorCode = "WeakSignal"
)

// ConfigurationKey names used by the configuration reconciler.
const (
	KeyNumberOfConnectors = "NumberOfConnectors"
)
