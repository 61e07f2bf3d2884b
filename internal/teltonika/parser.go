package teltonika

import "fmt"

// cursor walks a byte slice and never reads past its end; take reports
// failure instead of panicking, mirroring the Hex Codec's "total function"
// contract (spec.md §4.1).
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) take(n int) ([]byte, bool) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, false
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

// avlHeaderLen is the byte offset of the first record: preamble(4) +
// data_length(4) + codec_id(1) + num_records(1).
const avlHeaderLen = 10

// ParsePacket implements the AVL Parser (C3): decodes a Codec 8 / 8E AVL
// packet into a record sequence, never panicking and never returning an
// exception up to the caller (spec.md §4.3).
func ParsePacket(data []byte) DecodeResult {
	result := DecodeResult{}
	if len(data) < avlHeaderLen {
		result.ParseErrors = append(result.ParseErrors, "avl packet shorter than header")
		return result
	}

	codecID := data[8]
	numRecords := int(data[9])
	dataStep := 1
	extended := codecID == codec8E
	if extended {
		dataStep = 2
	}

	c := &cursor{buf: data, pos: avlHeaderLen}
	for i := 0; i < numRecords; i++ {
		rec, err := parseRecord(c, dataStep, extended)
		if rec != nil {
			result.Records = append(result.Records, rec)
			// Group-level diagnostics stay on the record and are also
			// surfaced on the packet's own ParseErrors.
			for _, e := range rec.ParseErrors {
				result.ParseErrors = append(result.ParseErrors, fmt.Sprintf("record %d: %s", i+1, e))
			}
		}
		if err != nil {
			result.ParseErrors = append(result.ParseErrors, fmt.Sprintf("record %d: %v", i+1, err))
			break
		}
	}
	return result
}

func parseRecord(c *cursor, dataStep int, extended bool) (*Record, error) {
	rec := &Record{IOElements: NewIOMap()}

	ts, ok := c.take(8)
	if !ok {
		return rec, fmt.Errorf("truncated timestamp")
	}
	rec.TimestampMillis = DecodeTimestampMillis(ts)

	pr, ok := c.take(1)
	if !ok {
		return rec, fmt.Errorf("truncated priority")
	}
	rec.Priority = pr[0]

	lon, ok := c.take(4)
	if !ok {
		return rec, fmt.Errorf("truncated longitude")
	}
	rec.Longitude = DecodeCoordinate(lon)

	lat, ok := c.take(4)
	if !ok {
		return rec, fmt.Errorf("truncated latitude")
	}
	rec.Latitude = DecodeCoordinate(lat)

	alt, ok := c.take(2)
	if !ok {
		return rec, fmt.Errorf("truncated altitude")
	}
	rec.Altitude = int16(DecodeUint(alt))

	bearing, ok := c.take(2)
	if !ok {
		return rec, fmt.Errorf("truncated bearing")
	}
	rec.Bearing = uint16(DecodeUint(bearing))

	sats, ok := c.take(1)
	if !ok {
		return rec, fmt.Errorf("truncated satellites")
	}
	rec.Satellites = sats[0]

	speed, ok := c.take(2)
	if !ok {
		return rec, fmt.Errorf("truncated speed")
	}
	rec.Speed = uint16(DecodeUint(speed))

	eventID, ok := c.take(dataStep)
	if !ok {
		return rec, fmt.Errorf("truncated event id")
	}
	rec.EventID = uint16(DecodeUint(eventID))

	// Total I/O count is advisory; the four/five group counts that follow are
	// authoritative, so it is consumed and not cross-checked.
	if _, ok := c.take(dataStep); !ok {
		return rec, fmt.Errorf("truncated total io count")
	}

	for _, width := range []int{1, 2, 4, 8} {
		if err := parseFixedGroup(c, rec, dataStep, width); err != nil {
			rec.addError(err.Error())
		}
	}

	if extended {
		if err := parseVariableGroup(c, rec); err != nil {
			rec.addError(err.Error())
		}
	}

	return rec, nil
}

// parseFixedGroup reads one of the four fixed-width I/O groups: a
// data_step-wide count, then that many (id, value) pairs of the given width.
// If an element fails to decode, the parser records the error and abandons
// the rest of THIS group only — the cursor position after a failed read is
// not trustworthy enough to keep pairing ids with values — while the caller
// proceeds to the next group (spec.md §4.3/§7).
func parseFixedGroup(c *cursor, rec *Record, dataStep, width int) error {
	countB, ok := c.take(dataStep)
	if !ok {
		return fmt.Errorf("truncated %d-byte group count", width)
	}
	count := int(DecodeUint(countB))

	seen := make(map[uint16]bool, count)
	for i := 0; i < count; i++ {
		idB, ok := c.take(dataStep)
		if !ok {
			return fmt.Errorf("%d-byte group: truncated id at element %d", width, i+1)
		}
		id := uint16(DecodeUint(idB))

		valB, ok := c.take(width)
		if !ok {
			return fmt.Errorf("%d-byte group: truncated value for id %d", width, id)
		}

		if seen[id] {
			rec.addError(fmt.Sprintf("%d-byte group: duplicate id %d", width, id))
			continue
		}
		seen[id] = true
		rec.IOElements.Set(id, decodeIOValue(id, valB))
	}
	return nil
}

// parseVariableGroup reads the Codec 8E-only fifth group: a 2-byte count,
// then that many (id[2], len[2], value[len]) triples.
func parseVariableGroup(c *cursor, rec *Record) error {
	countB, ok := c.take(2)
	if !ok {
		return fmt.Errorf("truncated variable group count")
	}
	count := int(DecodeUint(countB))

	seen := make(map[uint16]bool, count)
	for i := 0; i < count; i++ {
		idB, ok := c.take(2)
		if !ok {
			return fmt.Errorf("variable group: truncated id at element %d", i+1)
		}
		id := uint16(DecodeUint(idB))

		lenB, ok := c.take(2)
		if !ok {
			return fmt.Errorf("variable group: truncated length for id %d", id)
		}
		length := int(DecodeUint(lenB))

		valB, ok := c.take(length)
		if !ok {
			return fmt.Errorf("variable group: truncated value for id %d (len %d)", id, length)
		}

		if seen[id] {
			rec.addError(fmt.Sprintf("variable group: duplicate id %d", id))
			continue
		}
		seen[id] = true
		rec.IOElements.Set(id, decodeIOValue(id, valB))
	}
	return nil
}
