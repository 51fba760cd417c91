// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// timestampLayouts are tried in order when a timestamp arrives as a string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp normalizes the timestamp shapes found on catalog records:
// native time values, ISO-8601 strings, raw epoch seconds, and timestamp
// objects of the form {"seconds": s, "nanoseconds": n} (with or without a
// leading underscore). It reports false when v carries no usable instant.
func ParseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t.UTC(), !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return ParseTimestamp(*t)
	case string:
		return parseTimestampString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochSeconds(f)
	case float64:
		return fromEpochSeconds(t)
	case float32:
		return fromEpochSeconds(float64(t))
	case int:
		return fromEpochSeconds(float64(t))
	case int64:
		return time.Unix(t, 0).UTC(), true
	case uint64:
		return time.Unix(int64(t), 0).UTC(), true
	case map[string]any:
		return parseTimestampObject(t)
	}
	return time.Time{}, false
}

func parseTimestampString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpochSeconds(f)
	}
	return time.Time{}, false
}

func parseTimestampObject(m map[string]any) (time.Time, bool) {
	if d, ok := m["$date"]; ok {
		return ParseTimestamp(d)
	}
	secs, ok := numberField(m, "seconds", "_seconds")
	if !ok {
		return time.Time{}, false
	}
	nanos, _ := numberField(m, "nanoseconds", "_nanoseconds")
	return time.Unix(int64(secs), int64(nanos)).UTC(), true
}

func numberField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n, true
		case int64:
			return float64(n), true
		case int:
			return float64(n), true
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func fromEpochSeconds(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// Timestamp holds a record timestamp exactly as the remote catalog sent it.
// The raw form is preserved so re-serializing a record is byte-stable; use
// Time to read the normalized instant.
type Timestamp []byte

// TimestampOf returns t encoded as an ISO-8601 string timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(strconv.Quote(t.UTC().Format(time.RFC3339Nano)))
}

// Time decodes the raw value and normalizes it with ParseTimestamp.
func (ts Timestamp) Time() (time.Time, bool) {
	if ts.IsZero() {
		return time.Time{}, false
	}
	var v any
	if err := json.Unmarshal(ts, &v); err != nil {
		return time.Time{}, false
	}
	return ParseTimestamp(v)
}

// IsZero reports whether no timestamp was present.
func (ts Timestamp) IsZero() bool {
	return len(ts) == 0 || bytes.Equal(ts, []byte("null"))
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return ts, nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*ts = nil
		return nil
	}
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, data); err != nil {
		return err
	}
	*ts = Timestamp(compacted.Bytes())
	return nil
}

// Latest returns the later of the record's createdAt and updatedAt instants.
func (r *ItemRecord) Latest() (time.Time, bool) {
	created, okCreated := r.CreatedAt.Time()
	updated, okUpdated := r.UpdatedAt.Time()
	switch {
	case okCreated && okUpdated:
		if updated.After(created) {
			return updated, true
		}
		return created, true
	case okCreated:
		return created, true
	case okUpdated:
		return updated, true
	}
	return time.Time{}, false
}
