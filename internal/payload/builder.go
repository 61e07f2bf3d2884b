// Package payload implements the Payload Builder (C7): assembles one
// upstream item per decoded record, substituting fallbacks per Invariants
// I3 (coordinates) and I4 (timestamp) so the core never drops a record.
package payload

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"

	"github.com/halidi-hamidu/latra-gateway/internal/classifier"
	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
)

// FallbackPoint is the configured substitute location for non-GPS activities
// and invalid GPS input (spec.md §9 open question (b): mandatory, no built-in default).
type FallbackPoint struct {
	Latitude  float64
	Longitude float64
}

// eastAfricaMCCPrefixes is the recognized override set (spec.md §4.7.2):
// Tanzania, Kenya, Uganda. The Tanzania/Uganda overlap on "641" is kept
// intentionally; MCC 640 remains the unconditional default.
var eastAfricaMCCPrefixes = []string{"640", "641", "642", "639"}

const defaultMCC = "640"

// Builder assembles Items from decoded records. It owns the MGS_ID counter
// (spec.md §5/§9: shared mutable state lives on an explicit collaborator,
// never a package-level singleton).
type Builder struct {
	fallback FallbackPoint
	msgIDs   msgIDCounter
}

// New returns a Builder using fallback for non-GPS / invalid-coordinate substitution.
func New(fallback FallbackPoint) *Builder {
	return &Builder{fallback: fallback}
}

// Build assembles the upstream Item for rec, already classified as activity.
func (b *Builder) Build(rec *teltonika.Record, activity int, now time.Time) Item {
	item := Item{
		MsgID:      b.msgIDs.newMsgID(now),
		Speed:      rec.Speed,
		Satellites: rec.Satellites,
		ActivityID: strconv.Itoa(activity),
	}
	item.TimestampMs = resolveTimestamp(rec.TimestampMillis, now)
	item.Latitude, item.Longitude = resolveCoordinates(rec, activity, b.fallback)

	if v, ok := rec.IOElements.Get(teltonika.IOGNSSHDOP); ok {
		item.HDOP = v.Num
	}
	if v, ok := rec.IOElements.Get(teltonika.IOGPSMode); ok {
		item.GPSMode = v.Int()
	}
	if v, ok := rec.IOElements.Get(teltonika.IOGSMSignal); ok {
		item.RSSI = v.Int() * 6
	}
	if v, ok := rec.IOElements.Get(teltonika.IOCellID); ok {
		item.CellID = v.Int()
	}
	item.LAC = resolveLAC(rec)
	item.MCC = resolveMCC(rec)

	item.AddonInfo = buildAddonInfo(activity, rec)
	item.FuelInfo = buildFuelInfo(activity, rec)

	return item
}

// resolveTimestamp implements Invariant I4: a non-positive or >24h-future
// timestamp is replaced with "now".
func resolveTimestamp(ms int64, now time.Time) int64 {
	if ms <= 0 {
		return now.UnixMilli()
	}
	if ms > now.Add(24*time.Hour).UnixMilli() {
		return now.UnixMilli()
	}
	return ms
}

// resolveCoordinates implements Invariant I3: valid non-zero coordinates
// pass through; non-GPS activities and invalid input substitute fallback.
func resolveCoordinates(rec *teltonika.Record, activity int, fallback FallbackPoint) (float64, float64) {
	if isValidNonZero(rec.Latitude, rec.Longitude) && !classifier.IsNonGPS(activity) {
		return rec.Latitude, rec.Longitude
	}
	return fallback.Latitude, fallback.Longitude
}

func isValidNonZero(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// resolveLAC enforces the required 1..65534 range, else 0 (spec.md §4.7).
func resolveLAC(rec *teltonika.Record) int64 {
	v, ok := rec.IOElements.Get(teltonika.IOLAC)
	if !ok {
		return 0
	}
	lac := v.Int()
	if lac < 1 || lac > 65534 {
		return 0
	}
	return lac
}

// resolveMCC defaults to Tanzania and only accepts an override that begins
// with a recognized East-Africa prefix.
func resolveMCC(rec *teltonika.Record) string {
	v, ok := rec.IOElements.Get(teltonika.IOGSMOperator)
	if !ok {
		return defaultMCC
	}
	candidate := strconv.FormatInt(v.Int(), 10)
	for _, prefix := range eastAfricaMCCPrefixes {
		if strings.HasPrefix(candidate, prefix) {
			return candidate
		}
	}
	return defaultMCC
}
