// Package store provides the bbolt-backed persistence collaborator used by
// the Vehicle Directory and the Audit Sink, adapted from the teacher's
// pkg/storage/dtc.go bucket-per-concern pattern.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	vehicleBucket = "vehicles"
	auditBucket   = "audit_log"
)

// DB wraps a bbolt handle with the two buckets this gateway needs.
type DB struct {
	bolt *bolt.DB
}

// Open opens (or creates) the bbolt file at path and ensures both buckets exist.
func Open(path string) (*DB, error) {
	b, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	err = b.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(vehicleBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(auditBucket))
		return err
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("ensure buckets: %w", err)
	}
	return &DB{bolt: b}, nil
}

// Close releases the underlying file handle.
func (d *DB) Close() error {
	return d.bolt.Close()
}

// VehicleIdentity is the registration record keyed by IMEI.
type VehicleIdentity struct {
	IMEI         string `json:"imei"`
	Registration string `json:"registration"`
}

// FindVehicleByIMEI looks up the stored identity for imei: a miss is
// reported as (zero value, false, nil error), never an error.
func (d *DB) FindVehicleByIMEI(imei string) (VehicleIdentity, bool, error) {
	var identity VehicleIdentity
	var found bool
	err := d.bolt.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(vehicleBucket)).Get([]byte(imei))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &identity)
	})
	if err != nil {
		return VehicleIdentity{}, false, fmt.Errorf("find vehicle %s: %w", imei, err)
	}
	return identity, found, nil
}

// FindVehicleRegistration adapts FindVehicleByIMEI to the directory
// package's narrower Persistence contract.
func (d *DB) FindVehicleRegistration(imei string) (string, bool, error) {
	identity, found, err := d.FindVehicleByIMEI(imei)
	if err != nil || !found {
		return "", found, err
	}
	return identity.Registration, true, nil
}

// PutVehicle registers or updates a vehicle's identity. Used by operator
// tooling and tests; the ingestion path only ever reads.
func (d *DB) PutVehicle(identity VehicleIdentity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal vehicle: %w", err)
	}
	return d.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(vehicleBucket)).Put([]byte(identity.IMEI), raw)
	})
}

// AuditRecord is one append-only row of the Audit Sink: the six fields
// spec.md §4.9 names (vehicle_id, raw_hex, decoded_form, upstream_response,
// success_flag, created_at), plus the activity id the record was stamped
// with.
type AuditRecord struct {
	CreatedAtNanos   int64  `json:"created_at_nanos"`
	IMEI             string `json:"imei"`
	Registration     string `json:"registration"`
	ActivityID       int    `json:"activity_id"`
	RawHex           string `json:"raw_hex"`
	DecodedForm      string `json:"decoded_form"`
	UpstreamResponse string `json:"upstream_response"`
	Success          bool   `json:"success"`
}

// AppendAudit writes one audit row keyed by its creation time in nanoseconds,
// so iteration order is chronological (spec.md §4.9).
func (d *DB) AppendAudit(rec AuditRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(rec.CreatedAtNanos))
	return d.bolt.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(auditBucket)).Put(key, raw)
	})
}
