package classifier

import (
	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
)

// ioPriorityOrder is the scan order for rule 5 (spec.md §4.5): critical
// safety ids first (battery, harsh driving, panic), then driver
// identification, then power/trip. No temperature/fuel, geofence, other
// digital I/O, environmental, OBD or CAN ids are scanned. Ids not listed
// here are never matched by rule 5 directly; they only ever arrive via the
// Event ID path.
var ioPriorityOrder = []uint16{
	teltonika.IOBatteryVoltage,     // battery-unplug / low internal battery
	teltonika.IOGreenDrivingEvent,  // harsh driving
	teltonika.IOPanicDigitalInput2, // panic
	teltonika.IODriverID78,         // driver identification
	teltonika.IODriverID245,
	teltonika.IOExternalVoltage, // power
	teltonika.IOExternalPowerStatus,
	teltonika.IOTripState, // trip
}

// Classify implements the Activity Classifier (C5): the rule engine is
// evaluated in strict priority order and always returns exactly one id
// from the closed set (Invariant I1).
func Classify(rec *teltonika.Record) int {
	if rec.EventID != 0 {
		return lookupEventActivity(rec.EventID)
	}

	if _, ok := rec.IOElements.Get(teltonika.IOMovement); ok {
		// both transitions map to the same activity; the raw state stays on the record
		return ActivityMovementLogging
	}

	if v, ok := rec.IOElements.Get(teltonika.IOIgnition); ok {
		switch v.Int() {
		case 1:
			return ActivityEngineOn
		case 0:
			return ActivityEngineOff
		default:
			return ActivityMovementLogging
		}
	}

	if rec.Speed > 80 {
		return ActivitySpeeding
	}

	if activity, matched := scanIOPriority(rec); matched {
		return activity
	}

	// A record with no fix and nothing else to report (no speed, no I/O) is
	// black-box logging, not a GPS loss; see the default below.
	if rec.Satellites == 0 && rec.Latitude == 0 && rec.Longitude == 0 && hasAnyTelemetry(rec) {
		return ActivityGPSSignalLost
	}

	if hasAnyTelemetry(rec) {
		return ActivityMovementLogging
	}
	return ActivityBlackBoxDataLogging
}

// scanIOPriority implements rule 5's ordered I/O inspection and its
// per-id semantic overlays.
func scanIOPriority(rec *teltonika.Record) (int, bool) {
	for _, id := range ioPriorityOrder {
		v, ok := rec.IOElements.Get(id)
		if !ok {
			continue
		}
		switch id {
		case teltonika.IOBatteryVoltage:
			// Threshold matches the original (services.py: "battery_voltage <
			// 11.0") and scenario S4 (4.89V -> Activity 9), not the spec
			// text's 3.5V, which would otherwise never fire for S4's input.
			if v.Num < 11.0 {
				return ActivityInternalBatteryLow, true
			}
		case teltonika.IOExternalVoltage, teltonika.IOExternalPowerStatus:
			tampered := false
			if id == teltonika.IOExternalVoltage {
				tampered = rec.Speed >= 20
			} else {
				tampered = v.Int() == 1 && rec.Speed >= 20
			}
			if tampered {
				return ActivityDeviceTampering, true
			}
			return ActivityExternalPowerDisconnect, true
		case teltonika.IOGreenDrivingEvent:
			switch v.Int() {
			case 1:
				return ActivityHarshAcceleration, true
			case 2:
				return ActivityHarshBraking, true
			case 3:
				return ActivityHarshTurning, true
			}
		case teltonika.IOTripState:
			switch v.Int() {
			case 1:
				return ActivityEngineStart, true
			case 0:
				return ActivityEngineStop, true
			}
		case teltonika.IOPanicDigitalInput2:
			if v.Int() == 1 {
				return ActivityPanicButtonDriver, true
			}
		case teltonika.IODriverID78, teltonika.IODriverID245:
			if isInvalidDriverScan(v.Hex) {
				return ActivityInvalidScan, true
			}
			return ActivityIbuttonScanRegular, true
		}
	}
	return 0, false
}

func isInvalidDriverScan(hex string) bool {
	return hex == "" || hex == "FFFFFFFFFFFFFFFF" || hex == "0000000000000000"
}

func hasAnyTelemetry(rec *teltonika.Record) bool {
	if rec.Speed > 0 || rec.Latitude != 0 || rec.Longitude != 0 || rec.Satellites > 0 {
		return true
	}
	return rec.IOElements.Len() > 0
}
