package audit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halidi-hamidu/latra-gateway/internal/store"
)

type fakeStore struct {
	records []store.AuditRecord
	failNext bool
}

func (f *fakeStore) AppendAudit(rec store.AuditRecord) error {
	if f.failNext {
		return errors.New("disk full")
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeLogger struct {
	errors []string
}

func (f *fakeLogger) Error(msg interface{}, keyvals ...interface{}) {
	f.errors = append(f.errors, fmt.Sprint(msg))
}

func TestRecord_SkipsTransientIdentities(t *testing.T) {
	fs := &fakeStore{}
	s := New(fs, &fakeLogger{})

	s.Record(1, "356789012345678", "345678", 1, true, true, "deadbeef", "activity=1", "ok")

	assert.Empty(t, fs.records)
}

func TestRecord_WritesNonTransientIdentities(t *testing.T) {
	fs := &fakeStore{}
	s := New(fs, &fakeLogger{})

	s.Record(1, "356789012345678", "T123ABC", 1, false, true, "deadbeef", "activity=1", "ok")

	assert.Len(t, fs.records, 1)
	assert.Equal(t, "T123ABC", fs.records[0].Registration)
	assert.Equal(t, "deadbeef", fs.records[0].RawHex)
	assert.Equal(t, "activity=1", fs.records[0].DecodedForm)
	assert.Equal(t, "ok", fs.records[0].UpstreamResponse)
}

func TestRecord_SwallowsPersistenceFailure(t *testing.T) {
	fs := &fakeStore{failNext: true}
	log := &fakeLogger{}
	s := New(fs, log)

	assert.NotPanics(t, func() {
		s.Record(1, "356789012345678", "T123ABC", 1, false, false, "deadbeef", "activity=1", "upstream down")
	})
	assert.Len(t, log.errors, 1)
}
