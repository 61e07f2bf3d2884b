// Package classifier implements the LATRA Activity Classifier (C5): the
// prioritized rule engine that maps a decoded Teltonika record onto exactly
// one LATRA Activity ID.
package classifier

// LATRA Activity IDs, named the way the teacher names its DTC/PID constants
// (common/dtc_code.go): a flat block naming closed-set values 1..34; not
// every one of them is referenced by the rule engine or payload builder.
const (
	ActivityMovementLogging         = 1
	ActivityEngineOn                = 2
	ActivityEngineOff               = 3
	ActivitySpeeding                = 4
	ActivityHarshBraking            = 5
	ActivityHarshTurning            = 6
	ActivityHarshAcceleration       = 7
	ActivityPanicButtonDriver       = 8
	ActivityInternalBatteryLow      = 9
	ActivityExternalPowerDisconnect = 10
	ActivityExcessiveIdle           = 11
	ActivityAccident                = 12
	ActivityPanicButtonPassenger    = 13
	ActivityDeviceTampering         = 14
	ActivityBlackBoxDataLogging     = 15
	ActivityFuelDataReport          = 16
	ActivityInvalidScan             = 17
	ActivityEngineStart             = 18
	ActivityEngineStop              = 19
	ActivityEnterBoundary           = 20
	ActivityLeaveBoundary           = 21
	ActivityEnterCheckpoint         = 22
	ActivityLeaveCheckpoint         = 23
	ActivityIbuttonScanRegular      = 24
	ActivityGPSAntennaDisconnected  = 25
	ActivityGPSSignalLost           = 26
	ActivityGPSSignalRestored       = 27
	ActivityMainPowerDisconnected   = 28
	ActivityMainPowerConnected      = 29
	ActivityEmergencyButton         = 30
	ActivityDriverIdentification    = 31
	ActivityUnauthorizedDriver      = 32
	ActivityVehicleTheft            = 33
	ActivityMaintenanceAlert        = 34
)

// nonGPSActivitySet is the "non-GPS" activity set named by spec.md §4.7:
// engine events, panic, battery, power, tampering, logging, fuel report,
// invalid scan, iButton, GPS loss, maintenance. Membership here means the
// Payload Builder substitutes the configured fallback point outright rather
// than only on invalid input.
var nonGPSActivitySet = map[int]bool{
	ActivityEngineOn:                true,
	ActivityEngineOff:               true,
	ActivityEngineStart:             true,
	ActivityEngineStop:              true,
	ActivityPanicButtonDriver:       true,
	ActivityPanicButtonPassenger:    true,
	ActivityInternalBatteryLow:      true,
	ActivityExternalPowerDisconnect: true,
	ActivityDeviceTampering:         true,
	ActivityBlackBoxDataLogging:     true,
	ActivityFuelDataReport:          true,
	ActivityInvalidScan:             true,
	ActivityIbuttonScanRegular:      true,
	ActivityGPSSignalLost:           true,
	ActivityMaintenanceAlert:        true,
}

// IsNonGPS reports whether activity belongs to the non-GPS set.
func IsNonGPS(activity int) bool {
	return nonGPSActivitySet[activity]
}
