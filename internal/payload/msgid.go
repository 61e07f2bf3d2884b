package payload

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	counterMin  = 10000
	counterMax  = 99999
	counterSpan = counterMax - counterMin + 1
)

// msgIDCounter is the MGS_ID generator's mutable state (spec.md §5: the
// counter "must increment atomically"). It is owned by a Builder instance,
// never a package-level singleton (spec.md §9).
type msgIDCounter struct {
	n uint64
}

// next advances the counter and wraps it back into the 10000..99999 band
// named by spec.md §4.7.
func (c *msgIDCounter) next() int {
	n := atomic.AddUint64(&c.n, 1)
	return counterMin + int(n%uint64(counterSpan))
}

// newMsgID produces an 8-character MGS_ID: the wrapping counter combined
// with the low digits of the current second and a small pseudo-random tail.
// The counter prefix makes any 90000 consecutive ids from one Builder
// distinct, even within a single one-second window (spec.md §4.7, Property
// P7); past that the counter wraps and values may repeat.
func (c *msgIDCounter) newMsgID(now time.Time) string {
	n := c.next()
	secondLowDigits := now.Second() % 100
	tail := int(now.UnixNano() % 100)
	raw := fmt.Sprintf("%05d%02d%02d", n, secondLowDigits, tail)
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return raw
}
