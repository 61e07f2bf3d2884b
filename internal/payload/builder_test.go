package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/halidi-hamidu/latra-gateway/internal/classifier"
	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
)

var testFallback = FallbackPoint{Latitude: -6.7924, Longitude: 39.2083}

func newTestRecord() *teltonika.Record {
	return &teltonika.Record{IOElements: teltonika.NewIOMap()}
}

func TestBuild_ValidCoordinatesPassThroughForGPSActivity(t *testing.T) {
	rec := newTestRecord()
	rec.Latitude = -6.8
	rec.Longitude = 39.28
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityMovementLogging, time.Now())

	assert.Equal(t, -6.8, item.Latitude)
	assert.Equal(t, 39.28, item.Longitude)
}

func TestBuild_NonGPSActivitySubstitutesFallbackEvenWithValidCoordinates(t *testing.T) {
	rec := newTestRecord()
	rec.Latitude = -6.8
	rec.Longitude = 39.28
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityEngineOn, time.Now())

	assert.Equal(t, testFallback.Latitude, item.Latitude)
	assert.Equal(t, testFallback.Longitude, item.Longitude)
}

func TestBuild_ZeroCoordinatesSubstituteFallback(t *testing.T) {
	rec := newTestRecord()
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityMovementLogging, time.Now())

	assert.Equal(t, testFallback.Latitude, item.Latitude)
	assert.Equal(t, testFallback.Longitude, item.Longitude)
}

func TestBuild_TimestampFallbackOnNonPositive(t *testing.T) {
	rec := newTestRecord()
	rec.TimestampMillis = 0
	now := time.Now()
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityMovementLogging, now)

	assert.Equal(t, now.UnixMilli(), item.TimestampMs)
}

func TestBuild_TimestampFallbackOnFarFuture(t *testing.T) {
	rec := newTestRecord()
	now := time.Now()
	rec.TimestampMillis = now.Add(48 * time.Hour).UnixMilli()
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityMovementLogging, now)

	assert.Equal(t, now.UnixMilli(), item.TimestampMs)
}

func TestBuild_TimestampPassesThroughWhenValid(t *testing.T) {
	rec := newTestRecord()
	now := time.Now()
	rec.TimestampMillis = now.Add(-1 * time.Hour).UnixMilli()
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityMovementLogging, now)

	assert.Equal(t, rec.TimestampMillis, item.TimestampMs)
}

func TestBuild_MsgIDsAreDistinctWithinSameSecond(t *testing.T) {
	rec := newTestRecord()
	b := New(testFallback)
	now := time.Now()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		item := b.Build(rec, classifier.ActivityMovementLogging, now)
		assert.False(t, seen[item.MsgID], "duplicate MGS_ID %s", item.MsgID)
		seen[item.MsgID] = true
	}
}

func TestBuild_DriverIDEmptyOnSentinelForInvalidScan(t *testing.T) {
	rec := newTestRecord()
	rec.IOElements.Set(teltonika.IODriverID78, teltonika.IOValue{Hex: "FFFFFFFFFFFFFFFF"})
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityInvalidScan, time.Now())

	assert.Equal(t, "", item.AddonInfo["v_driver_identification_no"])
}

func TestBuild_FuelInfoOnlyForActivity16(t *testing.T) {
	rec := newTestRecord()
	rec.IOElements.Set(teltonika.IOFuelLevelSmoothed, teltonika.IOValue{Num: 55})
	b := New(testFallback)

	item := b.Build(rec, classifier.ActivityFuelDataReport, time.Now())
	assert.NotNil(t, item.FuelInfo)
	assert.Equal(t, "1", item.FuelInfo["channel"])

	other := b.Build(rec, classifier.ActivityMovementLogging, time.Now())
	assert.Nil(t, other.FuelInfo)
}

func TestResolveLAC_OutOfRangeBecomesZero(t *testing.T) {
	rec := newTestRecord()
	rec.IOElements.Set(teltonika.IOLAC, teltonika.IOValue{Num: 70000})

	assert.EqualValues(t, 0, resolveLAC(rec))
}

func TestResolveMCC_DefaultsToTanzania(t *testing.T) {
	rec := newTestRecord()
	assert.Equal(t, "640", resolveMCC(rec))
}

func TestResolveMCC_AcceptsRecognizedEastAfricaPrefix(t *testing.T) {
	rec := newTestRecord()
	rec.IOElements.Set(teltonika.IOGSMOperator, teltonika.IOValue{Num: 63901})
	assert.Equal(t, "63901", resolveMCC(rec))
}

func TestResolveMCC_RejectsUnrecognizedPrefix(t *testing.T) {
	rec := newTestRecord()
	rec.IOElements.Set(teltonika.IOGSMOperator, teltonika.IOValue{Num: 99901})
	assert.Equal(t, "640", resolveMCC(rec))
}
