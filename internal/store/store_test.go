package store

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFindVehicleByIMEI_Miss(t *testing.T) {
	db := openTestDB(t)

	identity, found, err := db.FindVehicleByIMEI("356789012345678")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, identity)
}

func TestPutVehicle_ThenFindByIMEI(t *testing.T) {
	db := openTestDB(t)
	want := VehicleIdentity{IMEI: "356789012345678", Registration: "T123ABC"}

	require.NoError(t, db.PutVehicle(want))
	got, found, err := db.FindVehicleByIMEI(want.IMEI)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestFindVehicleRegistration_AdaptsFindVehicleByIMEI(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.PutVehicle(VehicleIdentity{IMEI: "1", Registration: "T999ZZZ"}))

	reg, found, err := db.FindVehicleRegistration("1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "T999ZZZ", reg)

	_, found, err = db.FindVehicleRegistration("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAppendAudit_IterationOrderIsChronological(t *testing.T) {
	db := openTestDB(t)
	rows := []AuditRecord{
		{CreatedAtNanos: 300, IMEI: "a", ActivityID: 3},
		{CreatedAtNanos: 100, IMEI: "b", ActivityID: 1},
		{CreatedAtNanos: 200, IMEI: "c", ActivityID: 2},
	}
	for _, r := range rows {
		require.NoError(t, db.AppendAudit(r))
	}

	var seen []int64
	err := db.bolt.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(auditBucket)).ForEach(func(k, v []byte) error {
			seen = append(seen, int64(binary.BigEndian.Uint64(k)))
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 300}, seen)
}
