package payload

import (
	"fmt"
	"math"
	"strconv"

	"github.com/halidi-hamidu/latra-gateway/internal/classifier"
	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
)

// hardwareFaultNames decodes the small enum used in fuel_info's hardFault
// field (spec.md §4.7 activity 16), grounded on original_source's
// HARDWARE_FAULT_CODES table.
var hardwareFaultNames = map[int64]string{
	0: "Normal",
	1: "Sensor Communication Error",
	2: "Sensor Data Error",
	3: "Sensor Hardware Fault",
	4: "Sensor Configuration Error",
}

// buildAddonInfo assembles the activity-keyed addon_info attachment
// (spec.md §4.7). Returns nil when the activity has no addon shape.
func buildAddonInfo(activity int, rec *teltonika.Record) map[string]string {
	io := rec.IOElements
	info := map[string]string{}

	switch activity {
	case classifier.ActivityEngineOn:
		if v, ok := io.Get(teltonika.IOIdleTime); ok {
			info["idleTime"] = strconv.FormatInt(v.Int(), 10)
		}
		info["v_driver_identification_no"] = driverIDField(rec, false)

	case classifier.ActivityEngineOff, classifier.ActivityEngineStop:
		if v, ok := io.Get(teltonika.IOTripOdometer); ok {
			info["distance_travelled_km"] = formatFloat(v.Num / 1000)
		}
		if v, ok := io.Get(teltonika.IOTripDuration); ok {
			minutes := int64(math.Floor(v.Num / 60))
			if minutes < 1 {
				minutes = 1
			}
			info["trip_duration_minutes"] = strconv.FormatInt(minutes, 10)
		}
		if v, ok := io.Get(teltonika.IOTripAvgSpeed); ok && isSaneSpeed(v.Num) {
			info["avgSpeed"] = formatFloat(v.Num)
		}
		if v, ok := io.Get(teltonika.IOTripMaxSpeed); ok && isSaneSpeed(v.Num) {
			info["maxSpeed"] = formatFloat(v.Num)
		}
		if v, ok := io.Get(teltonika.IOBatteryVoltage); ok {
			info["int_battery_voltage"] = formatFloat(v.Num)
		}
		if v, ok := io.Get(teltonika.IOExternalVoltage); ok {
			info["ext_power_voltage"] = formatFloat(v.Num)
		}
		if v, ok := io.Get(teltonika.IOIgnition); ok {
			info["journey_status"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOMovement); ok {
			info["movement_status"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOGSMSignal); ok {
			info["signal_quality"] = strconv.FormatInt(v.Int(), 10)
		}
		info["v_driver_identification_no"] = driverIDField(rec, false)

	case classifier.ActivityInternalBatteryLow, classifier.ActivityExternalPowerDisconnect, classifier.ActivityDeviceTampering:
		if v, ok := io.Get(teltonika.IOExternalVoltage); ok {
			info["ext_power_voltage"] = formatFloat(v.Num)
		}
		if v, ok := io.Get(teltonika.IOBatteryVoltage); ok {
			info["int_battery_voltage"] = formatFloat(v.Num)
		}

	case classifier.ActivityInvalidScan, classifier.ActivityIbuttonScanRegular:
		info["v_driver_identification_no"] = driverIDField(rec, true)

	case classifier.ActivityHarshAcceleration, classifier.ActivityHarshBraking, classifier.ActivityHarshTurning:
		info["event_type"] = harshEventName(activity)
		if v, ok := io.Get(teltonika.IOAxisX); ok {
			info["axis_x"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOAxisY); ok {
			info["axis_y"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOAxisZ); ok {
			info["axis_z"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOGSMSignal); ok {
			info["signal_quality"] = strconv.FormatInt(v.Int(), 10)
		}

	case classifier.ActivityPanicButtonDriver:
		info["panic_source"] = "driver"
		if v, ok := io.Get(teltonika.IOPanicDigitalInput2); ok {
			info["panic_state"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOGSMSignal); ok {
			info["signal_quality"] = strconv.FormatInt(v.Int(), 10)
		}
		if v, ok := io.Get(teltonika.IOBatteryVoltage); ok {
			info["int_battery_voltage"] = formatFloat(v.Num)
		}

	default:
		return nil
	}

	if len(info) == 0 {
		return nil
	}
	return info
}

// buildFuelInfo assembles the fuel_info attachment for activity 16 only.
func buildFuelInfo(activity int, rec *teltonika.Record) map[string]string {
	if activity != classifier.ActivityFuelDataReport {
		return nil
	}
	io := rec.IOElements
	info := map[string]string{
		"channel": "1",
	}
	if v, ok := io.Get(teltonika.IOFuelValidFlag); ok {
		info["validFlag"] = strconv.FormatInt(v.Int(), 10)
	}
	if v, ok := io.Get(teltonika.IOFuelSignalLevel); ok {
		info["signalLevel"] = strconv.FormatInt(v.Int(), 10)
	}
	if v, ok := io.Get(teltonika.IOFuelSoftStatus); ok {
		info["softStatus"] = strconv.FormatInt(v.Int(), 10)
	}
	if v, ok := io.Get(teltonika.IOFuelHardFault); ok {
		code := v.Int()
		name, known := hardwareFaultNames[code]
		if !known {
			name = "Unknown fault"
		}
		info["hardFault"] = fmt.Sprintf("%d - %s", code, name)
	}
	if v, ok := io.Get(teltonika.IOFuelLevelSmoothed); ok {
		info["fuelLevel"] = strconv.FormatInt(v.Int(), 10)
	}
	if v, ok := io.Get(teltonika.IOFuelLevelRealtime); ok {
		info["rtFuelLevel"] = strconv.FormatInt(v.Int(), 10)
	}
	if v, ok := io.Get(teltonika.IOFuelTankTemp); ok {
		info["tankTemp"] = formatFloat(v.Num / 10)
	}
	if v, ok := io.Get(teltonika.IOFuelChannel); ok {
		info["channel"] = strconv.FormatInt(v.Int(), 10)
	}
	return info
}

// driverIDField renders the driver-id I/O (78 preferred, 245 fallback) as a
// 16-hex-char string, or empty string when emptyOnSentinel is set and the
// decoded value is one of the two invalid-scan sentinels (spec.md §4.7,
// activities 17/24).
func driverIDField(rec *teltonika.Record, emptyOnSentinel bool) string {
	v, ok := rec.IOElements.Get(teltonika.IODriverID78)
	if !ok {
		v, ok = rec.IOElements.Get(teltonika.IODriverID245)
	}
	if !ok {
		if emptyOnSentinel {
			return ""
		}
		return "FFFFFFFFFFFFFFFF"
	}
	if emptyOnSentinel && isSentinelHex(v.Hex) {
		return ""
	}
	return v.Hex
}

func isSentinelHex(hex string) bool {
	return hex == "FFFFFFFFFFFFFFFF" || hex == "0000000000000000"
}

func harshEventName(activity int) string {
	switch activity {
	case classifier.ActivityHarshAcceleration:
		return "harsh_acceleration"
	case classifier.ActivityHarshBraking:
		return "harsh_braking"
	case classifier.ActivityHarshTurning:
		return "harsh_turning"
	default:
		return "unknown"
	}
}

// isSaneSpeed rejects device-reported speeds outside a plausible range
// before they are forwarded upstream (spec.md §4.7: "validated against sane
// ranges before inclusion").
func isSaneSpeed(kph float64) bool {
	return kph >= 0 && kph <= 300
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
