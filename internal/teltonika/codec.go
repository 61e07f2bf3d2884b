// Package teltonika decodes Teltonika-style Codec 8 / Codec 8 Extended AVL
// packets: IMEI handshakes and AVL data frames, down to typed I/O element
// values.
package teltonika

import "encoding/binary"

// DecodeUint decodes an unsigned big-endian integer of arbitrary byte width.
// A nil or empty slice decodes to 0; this is a total function, callers that
// need to know whether the input was well-formed check len(b) themselves.
func DecodeUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// DecodeCoordinate decodes a 4-byte two's-complement integer scaled by 1e-7,
// the wire encoding for latitude and longitude (spec.md §3).
func DecodeCoordinate(b []byte) float64 {
	if len(b) != 4 {
		return 0
	}
	raw := int32(binary.BigEndian.Uint32(b))
	return float64(raw) / 1e7
}

// DecodeSigned32 decodes a 4-byte two's-complement integer, used for the
// accelerometer axes carried in the X-byte I/O group.
func DecodeSigned32(b []byte) int32 {
	if len(b) != 4 {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

// DecodeTimestampMillis decodes the 8-byte big-endian device timestamp,
// milliseconds since the Unix epoch.
func DecodeTimestampMillis(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
