package payload

import (
	"encoding/json"
	"strconv"
)

// Item is one upstream LATRA report row: the part of the wire payload the
// Payload Builder is responsible for assembling (spec.md §4.7). Fields are
// kept as their natural Go types so the rest of the package can read/compare
// them directly; MarshalJSON renders every value field as a JSON string
// (spec.md §6: "All item field values are JSON strings, including numeric
// ones").
type Item struct {
	MsgID       string
	TimestampMs int64
	Latitude    float64
	Longitude   float64
	Speed       uint16
	Satellites  uint8
	HDOP        float64
	GPSMode     int64
	RSSI        int64
	CellID      int64
	LAC         int64
	MCC         string
	ActivityID  string
	AddonInfo   map[string]string
	FuelInfo    map[string]string
}

// itemWire mirrors Item with every scalar rendered as a string, matching the
// upstream wire contract exactly.
type itemWire struct {
	MsgID      string            `json:"MGS_ID"`
	Timestamp  string            `json:"timestamp"`
	Latitude   string            `json:"latitude"`
	Longitude  string            `json:"longitude"`
	Speed      string            `json:"speed"`
	Satellites string            `json:"satellites"`
	HDOP       string            `json:"hdop"`
	GPSMode    string            `json:"gps_mode"`
	RSSI       string            `json:"rssi"`
	CellID     string            `json:"cell_id"`
	LAC        string            `json:"lac"`
	MCC        string            `json:"mcc"`
	ActivityID string            `json:"activity_id"`
	AddonInfo  map[string]string `json:"addon_info,omitempty"`
	FuelInfo   map[string]string `json:"fuel_info,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting every scalar field to its
// string form before encoding.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemWire{
		MsgID:      it.MsgID,
		Timestamp:  strconv.FormatInt(it.TimestampMs, 10),
		Latitude:   strconv.FormatFloat(it.Latitude, 'f', 7, 64),
		Longitude:  strconv.FormatFloat(it.Longitude, 'f', 7, 64),
		Speed:      strconv.FormatUint(uint64(it.Speed), 10),
		Satellites: strconv.FormatUint(uint64(it.Satellites), 10),
		HDOP:       strconv.FormatFloat(it.HDOP, 'f', -1, 64),
		GPSMode:    strconv.FormatInt(it.GPSMode, 10),
		RSSI:       strconv.FormatInt(it.RSSI, 10),
		CellID:     strconv.FormatInt(it.CellID, 10),
		LAC:        strconv.FormatInt(it.LAC, 10),
		MCC:        it.MCC,
		ActivityID: it.ActivityID,
		AddonInfo:  it.AddonInfo,
		FuelInfo:   it.FuelInfo,
	})
}

// Batch is the outbound upload: one vehicle's device reporting one or more items.
type Batch struct {
	Registration string `json:"vehicle_reg_no"`
	IMEI         string `json:"imei"`
	Type         string `json:"type"`
	Items        []Item `json:"items"`
}
