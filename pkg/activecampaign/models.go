package activecampaign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp parses the vendor's tracking-log timestamps. Exports have been seen
// carrying both ISO 8601 strings and unix seconds, so both are accepted.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		if secs, numErr := strconv.ParseInt(s, 10, 64); numErr == nil {
			t.Time = time.Unix(secs, 0).UTC()
			return nil
		}
		return fmt.Errorf("invalid tracking timestamp %q: %w", s, err)
	}

	var secs int64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("invalid tracking timestamp: %w", err)
	}
	t.Time = time.Unix(secs, 0).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Contact is an ActiveCampaign contact, resolved by email lookup.
type Contact struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TrackingLog is one tracked contact activity. Only entries with a value (the
// visited URL) represent page visits; email opens and similar events come
// through with an empty value.
type TrackingLog struct {
	Type   string    `json:"type"`
	Tstamp Timestamp `json:"tstamp"`
	Value  string    `json:"value"`
}

// IsPageVisit reports whether the log entry carries a visited URL.
func (l TrackingLog) IsPageVisit() bool {
	return l.Value != ""
}

type contactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

type trackingLogsResponse struct {
	TrackingLogs []TrackingLog `json:"trackingLogs"`
}
