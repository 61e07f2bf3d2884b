package teltonika

import "strings"

// Teltonika FMB-series I/O element ids referenced by the activity classifier
// and payload builder. Named the way the teacher names its PIDs
// (cmd/agent-j1587/pids.go): a flat block of constants, one per wire id.
const (
	IODigitalInput1       = 1
	IODigitalInput2       = 2
	IODigitalInput3       = 3
	IOEngineWorktime      = 6
	IOAxisX               = 17
	IOAxisY               = 18
	IOAxisZ               = 19
	IOGSMSignal           = 21
	IOIdleTime            = 11
	IODriverID245         = 245
	IODriverID78          = 78
	IOGPSMode             = 181 // fix-type / GPS mode, raw integer
	IOGNSSHDOP            = 182
	IOExternalVoltage     = 66
	IOBatteryVoltage      = 67
	IOTripOdometer        = 199
	IOTotalOdometer       = 16
	IOTripDuration        = 80
	IOTripAvgSpeed        = 241
	IOTripMaxSpeed        = 242
	IOIgnition            = 239
	IOMovement            = 240
	IOTripState           = 250
	IOGreenDrivingEvent   = 253
	IOCellID              = 205
	IOLAC                 = 206
	IOGSMOperator         = 14
	IOPanicDigitalInput2  = 2
	IOExternalPowerStatus = 252

	// Fuel-sensor ids (281-288) are a dedicated block: they must never
	// collide with the trip/power/green-driving ids above, since a single
	// record's I/O map holds at most one value per wire id (Invariant I2)
	// and fuel_info (activity 16) is assembled independently of those.
	IOFuelValidFlag     = 281
	IOFuelSignalLevel   = 282
	IOFuelSoftStatus    = 283
	IOFuelHardFault     = 284
	IOFuelLevelSmoothed = 285
	IOFuelLevelRealtime = 286
	IOFuelTankTemp      = 287
	IOFuelChannel       = 288
)

// ioKindOf maps an I/O id to its decode kind and, for scaled decimals, its
// scale factor. Ids absent from the table decode as IOKindRaw (spec.md §4.4).
var ioKindOf = map[uint16]struct {
	kind   IOKind
	factor float64
}{
	IOAxisX:           {IOKindSigned32, 1},
	IOAxisY:            {IOKindSigned32, 1},
	IOAxisZ:            {IOKindSigned32, 1},
	IOExternalVoltage:  {IOKindScaled, 0.01},
	IOBatteryVoltage:   {IOKindScaled, 0.01},
	IOTripAvgSpeed:     {IOKindScaled, 0.1},
	IOTripMaxSpeed:     {IOKindScaled, 0.1},
	IOGNSSHDOP:         {IOKindScaled, 0.1},
	68:                 {IOKindScaled, 0.001}, // battery current
	12:                 {IOKindScaled, 0.001}, // fuel used (GPS)
	13:                 {IOKindScaled, 0.01},  // fuel rate
	6:                  {IOKindScaled, 0.001}, // analog input (voltage domain)
	IODriverID78:       {IOKindOpaqueID, 1},
	IODriverID245:      {IOKindOpaqueID, 1},
}

// ioKind resolves the decode kind and scale factor for an I/O id.
func ioKind(id uint16) (IOKind, float64) {
	if e, ok := ioKindOf[id]; ok {
		return e.kind, e.factor
	}
	return IOKindRaw, 1
}

// decodeIOValue applies the I/O semantics table (C4) to a raw byte slice of
// the group's width, producing a typed IOValue. It never fails: malformed
// or short input decodes to the kind's zero value.
func decodeIOValue(id uint16, raw []byte) IOValue {
	kind, factor := ioKind(id)
	switch kind {
	case IOKindScaled:
		n := float64(DecodeUint(raw)) * factor
		return IOValue{Kind: kind, Num: n}
	case IOKindSigned32:
		n := DecodeSigned32(raw)
		return IOValue{Kind: kind, Num: float64(n)}
	case IOKindOpaqueID:
		return IOValue{Kind: kind, Hex: normalizeOpaqueID(raw)}
	default:
		n := DecodeUint(raw)
		return IOValue{Kind: IOKindRaw, Num: float64(n)}
	}
}

// sentinelAllF and sentinelAllZero are the two invalid-scan patterns
// (spec.md §4.4): an uninitialized reader returns all-F, a cleared one all-0.
const (
	sentinelAllF    = "FFFFFFFFFFFFFFFF"
	sentinelAllZero = "0000000000000000"
)

// normalizeOpaqueID renders raw bytes as an uppercase hex string, left-padded
// to 16 characters when shorter, right-truncated to the last 16 when longer
// (spec.md §4.4; left-padding confirmed against original_source's
// parse_driver_id, which zfills rather than right-pads). Empty input yields
// the all-F sentinel rather than sixteen zeros.
func normalizeOpaqueID(raw []byte) string {
	if len(raw) == 0 {
		return sentinelAllF
	}
	hex := strings.ToUpper(hexEncode(raw))
	switch {
	case len(hex) < 16:
		hex = strings.Repeat("0", 16-len(hex)) + hex
	case len(hex) > 16:
		hex = hex[len(hex)-16:]
	}
	return hex
}

// isInvalidScanSentinel reports whether an opaque id is one of the two
// sentinel patterns that the classifier treats as "no scan" (spec.md §4.4,
// Property P4).
func isInvalidScanSentinel(hex string) bool {
	return hex == sentinelAllF || hex == sentinelAllZero
}

const hexDigits = "0123456789ABCDEF"

func hexEncode(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, x := range b {
		out[i*2] = hexDigits[x>>4]
		out[i*2+1] = hexDigits[x&0x0f]
	}
	return string(out)
}
