package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
)

func newRecord() *teltonika.Record {
	return &teltonika.Record{IOElements: teltonika.NewIOMap()}
}

func TestClassify_EventIDTakesPriorityOverIO(t *testing.T) {
	rec := newRecord()
	rec.EventID = 247 // crash
	rec.IOElements.Set(teltonika.IOMovement, teltonika.IOValue{Num: 1})

	assert.Equal(t, ActivityAccident, Classify(rec))
}

func TestClassify_ReservedSystemEventFallsBackToMovement(t *testing.T) {
	rec := newRecord()
	rec.EventID = 3 // in [1..8], unmapped

	assert.Equal(t, ActivityMovementLogging, Classify(rec))
}

func TestClassify_UnmappedHighEventIDFallsBackToMovement(t *testing.T) {
	rec := newRecord()
	rec.EventID = 9001

	assert.Equal(t, ActivityMovementLogging, Classify(rec))
}

func TestClassify_MovementIO(t *testing.T) {
	rec := newRecord()
	rec.IOElements.Set(teltonika.IOMovement, teltonika.IOValue{Num: 0})

	assert.Equal(t, ActivityMovementLogging, Classify(rec))
}

func TestClassify_IgnitionOnOff(t *testing.T) {
	on := newRecord()
	on.IOElements.Set(teltonika.IOIgnition, teltonika.IOValue{Num: 1})
	assert.Equal(t, ActivityEngineOn, Classify(on))

	off := newRecord()
	off.IOElements.Set(teltonika.IOIgnition, teltonika.IOValue{Num: 0})
	assert.Equal(t, ActivityEngineOff, Classify(off))
}

func TestClassify_SpeedingThreshold(t *testing.T) {
	rec := newRecord()
	rec.Speed = 81

	assert.Equal(t, ActivitySpeeding, Classify(rec))
}

func TestClassify_ExternalVoltageTamperingVsDisconnect(t *testing.T) {
	tampered := newRecord()
	tampered.Speed = 20
	tampered.IOElements.Set(teltonika.IOExternalVoltage, teltonika.IOValue{Num: 11.5})
	assert.Equal(t, ActivityDeviceTampering, Classify(tampered))

	disconnected := newRecord()
	disconnected.Speed = 19
	disconnected.IOElements.Set(teltonika.IOExternalVoltage, teltonika.IOValue{Num: 11.5})
	assert.Equal(t, ActivityExternalPowerDisconnect, Classify(disconnected))
}

func TestClassify_LowBackupBattery(t *testing.T) {
	rec := newRecord()
	rec.IOElements.Set(teltonika.IOBatteryVoltage, teltonika.IOValue{Num: 3.1})

	assert.Equal(t, ActivityInternalBatteryLow, Classify(rec))
}

func TestClassify_BackupBatteryAt489Volts(t *testing.T) {
	rec := newRecord()
	rec.IOElements.Set(teltonika.IOBatteryVoltage, teltonika.IOValue{Num: 4.89})

	assert.Equal(t, ActivityInternalBatteryLow, Classify(rec))
}

func TestClassify_GreenDrivingSubtypes(t *testing.T) {
	accel := newRecord()
	accel.IOElements.Set(teltonika.IOGreenDrivingEvent, teltonika.IOValue{Num: 1})
	assert.Equal(t, ActivityHarshAcceleration, Classify(accel))

	brake := newRecord()
	brake.IOElements.Set(teltonika.IOGreenDrivingEvent, teltonika.IOValue{Num: 2})
	assert.Equal(t, ActivityHarshBraking, Classify(brake))

	turn := newRecord()
	turn.IOElements.Set(teltonika.IOGreenDrivingEvent, teltonika.IOValue{Num: 3})
	assert.Equal(t, ActivityHarshTurning, Classify(turn))
}

func TestClassify_DriverIDSentinelVsValid(t *testing.T) {
	invalid := newRecord()
	invalid.IOElements.Set(teltonika.IODriverID78, teltonika.IOValue{Hex: "FFFFFFFFFFFFFFFF"})
	assert.Equal(t, ActivityInvalidScan, Classify(invalid))

	valid := newRecord()
	valid.IOElements.Set(teltonika.IODriverID78, teltonika.IOValue{Hex: "00000000000001A2"})
	assert.Equal(t, ActivityIbuttonScanRegular, Classify(valid))
}

func TestClassify_PanicButton(t *testing.T) {
	rec := newRecord()
	rec.IOElements.Set(teltonika.IOPanicDigitalInput2, teltonika.IOValue{Num: 1})

	assert.Equal(t, ActivityPanicButtonDriver, Classify(rec))
}

func TestClassify_GPSSignalLost(t *testing.T) {
	rec := newRecord()
	rec.Satellites = 0
	rec.Latitude = 0
	rec.Longitude = 0
	rec.IOElements.Set(teltonika.IOGSMSignal, teltonika.IOValue{Num: 4})

	assert.Equal(t, ActivityGPSSignalLost, Classify(rec))
}

func TestClassify_DefaultFallbackWithTelemetry(t *testing.T) {
	rec := newRecord()
	rec.Latitude = -6.8
	rec.Longitude = 39.28

	assert.Equal(t, ActivityMovementLogging, Classify(rec))
}

func TestClassify_DefaultFallbackWithNoTelemetryAtAll(t *testing.T) {
	rec := newRecord()

	assert.Equal(t, ActivityBlackBoxDataLogging, Classify(rec))
}

func TestClassify_NeverReturnsZero(t *testing.T) {
	cases := []*teltonika.Record{
		newRecord(),
		{IOElements: teltonika.NewIOMap(), EventID: 65535},
		{IOElements: teltonika.NewIOMap(), Speed: 200},
	}
	for _, rec := range cases {
		assert.NotZero(t, Classify(rec))
	}
}
