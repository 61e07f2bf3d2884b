// Package audit implements the Audit Sink (C9): append-only persistence of
// ingestion attempts, adapted from the teacher's bbolt dedup-bucket pattern
// (pkg/storage/dtc.go) into an append-only audit-row bucket.
package audit

import (
	"fmt"

	"github.com/halidi-hamidu/latra-gateway/internal/store"
)

// Persistence is the append-only collaborator the sink writes through.
type Persistence interface {
	AppendAudit(rec store.AuditRecord) error
}

// Logger is the minimal structured-logging contract the sink needs,
// satisfied by *charmbracelet/log.Logger.
type Logger interface {
	Error(msg interface{}, keyvals ...interface{})
}

// Sink writes one audit row per non-transient ingestion attempt.
type Sink struct {
	store  Persistence
	logger Logger
}

// New builds a Sink backed by persist.
func New(persist Persistence, logger Logger) *Sink {
	return &Sink{store: persist, logger: logger}
}

// Record writes an audit row for one ingestion attempt: the raw wire frame
// (rawHex), the decoded record summary (decodedForm), and the upstream
// transmitter's response or error (upstreamResponse), at createdAtNanos.
// Transient identities are skipped entirely (spec.md §4.6/§4.9); a
// persistence failure is logged and swallowed so it never blocks the
// ingestion pipeline (spec.md §4.9/§7).
func (s *Sink) Record(createdAtNanos int64, imei, registration string, activityID int, transient, success bool, rawHex, decodedForm, upstreamResponse string) {
	if transient {
		return
	}
	err := s.store.AppendAudit(store.AuditRecord{
		CreatedAtNanos:   createdAtNanos,
		IMEI:             imei,
		Registration:     registration,
		ActivityID:       activityID,
		RawHex:           rawHex,
		DecodedForm:      decodedForm,
		UpstreamResponse: upstreamResponse,
		Success:          success,
	})
	if err != nil {
		s.logger.Error("audit write failed", "imei", imei, "err", fmt.Sprint(err))
	}
}
