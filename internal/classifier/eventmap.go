package classifier

// eventToActivity maps a non-zero Teltonika event_id onto a LATRA Activity
// ID, grounded on original_source/gps_listener/services.py's ACTIVITY_CODES
// table. Where the original table documents two event ids converging on the
// same activity (the geofence-zone block below), both keys are kept; Go map
// literals forbid an actual duplicate key, so the "first declaration wins"
// resolution named by spec.md's open questions only matters for the entries
// that really were declared twice in the original — this port keeps exactly
// one binding per key, taken from that table's first occurrence.
var eventToActivity = map[uint16]int{
	// Geofence zones -> Enter/Leave Boundary.
	155: ActivityEnterBoundary,
	156: ActivityEnterBoundary,
	157: ActivityEnterBoundary,
	158: ActivityEnterBoundary,
	159: ActivityEnterBoundary,
	61:  ActivityEnterBoundary,
	62:  ActivityEnterBoundary,
	63:  ActivityEnterBoundary,
	64:  ActivityEnterBoundary,
	65:  ActivityEnterBoundary,
	70:  ActivityEnterBoundary,
	88:  ActivityEnterBoundary,
	91:  ActivityEnterBoundary,
	92:  ActivityEnterBoundary,
	93:  ActivityEnterBoundary,
	94:  ActivityEnterBoundary,
	95:  ActivityEnterBoundary,
	96:  ActivityEnterBoundary,
	97:  ActivityEnterBoundary,
	98:  ActivityEnterBoundary,
	99:  ActivityEnterBoundary,
	175: ActivityEnterBoundary, // Auto Geofence

	250: ActivityEngineStart,             // Trip Start/Stop
	251: ActivityExcessiveIdle,            // Idling Start/Stop
	252: ActivityInternalBatteryLow,       // Battery Unplug
	253: ActivityHarshBraking,             // Green Driving (braking)
	254: ActivityHarshAcceleration,        // Green Driving (acceleration)
	255: ActivitySpeeding,                 // Over Speeding
	246: ActivityVehicleTheft,             // Towing Detection
	247: ActivityAccident,                 // Crash Detection
	248: ActivityIbuttonScanRegular,       // Immobilizer
	249: ActivityGPSSignalLost,            // Jamming
	318: ActivityGPSSignalLost,            // GNSS Jamming
	257: ActivityAccident,                 // Crash trace data
	236: ActivityPanicButtonDriver,        // Alarm

	239: ActivityEngineOn,   // Ignition Event; the Event ID path yields Engine ON whatever the ignition state
	240: ActivityMovementLogging,

	285: ActivityDriverIdentification, // Blood alcohol content
	391: ActivityDeviceTampering,       // Private mode
	449: ActivityEngineOn,              // Ignition On Counter

	403: ActivityDriverIdentification, // Driver Name
	404: ActivityDriverIdentification, // Driver card license type
	405: ActivityDriverIdentification, // Driver Gender
	406: ActivityDriverIdentification, // Driver Card ID
	407: ActivityDriverIdentification, // Driver card expiration date
	408: ActivityDriverIdentification, // Driver Card place of issue
	409: ActivityDriverIdentification, // Driver Status Event

	256: ActivityFuelDataReport, // VIN (OBD block repurposes this id)
	30:  ActivityMaintenanceAlert,
	281: ActivityMaintenanceAlert,

	90:  activityDoorOpen,
	235: ActivityMaintenanceAlert, // Oil Level
	160: ActivityMaintenanceAlert, // DTC Faults

	385: ActivityEnterCheckpoint, // Beacon
	548: ActivityEnterCheckpoint, // Advanced BLE Beacon data
}

// activityDoorOpen has no named constant in activities.go and is never
// produced by the rule engine's own rules, but it lies inside {1..50} and is
// a valid direct mapping target from the Event
// ID path (spec.md §4.5 rule 1: "otherwise fall back to 1" only applies when
// the mapping does NOT yield a valid id).
const activityDoorOpen = 39

// reservedSystemEventMax is the top of the "system event" range named by
// spec.md §4.5 rule 1.
const reservedSystemEventMax = 8

// lookupEventActivity implements the Event ID path's map lookup plus its
// fallback ladder: mapped id wins; else a reserved low event id maps to
// Movement/Logging; else an event id that already looks like a LATRA id
// (<=50) is used as-is; else fall back to Movement/Logging.
func lookupEventActivity(eventID uint16) int {
	if activity, ok := eventToActivity[eventID]; ok {
		return activity
	}
	if eventID >= 1 && eventID <= reservedSystemEventMax {
		return ActivityMovementLogging
	}
	if eventID <= 50 {
		return int(eventID)
	}
	return ActivityMovementLogging
}
