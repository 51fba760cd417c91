package core

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  any
		want   time.Time
		wantOK bool
	}{
		{name: "nil", input: nil, wantOK: false},
		{name: "native time", input: want, want: want, wantOK: true},
		{name: "zero time", input: time.Time{}, wantOK: false},
		{name: "pointer to time", input: &want, want: want, wantOK: true},
		{name: "RFC3339 string", input: "2024-03-05T10:30:00Z", want: want, wantOK: true},
		{name: "RFC3339 with offset", input: "2024-03-05T12:30:00+02:00", want: want, wantOK: true},
		{name: "fractional seconds", input: "2024-03-05T10:30:00.000Z", want: want, wantOK: true},
		{name: "no zone", input: "2024-03-05T10:30:00", want: want, wantOK: true},
		{name: "epoch seconds float", input: float64(want.Unix()), want: want, wantOK: true},
		{name: "epoch seconds int64", input: want.Unix(), want: want, wantOK: true},
		{name: "epoch seconds string", input: "1709634600", want: want, wantOK: true},
		{name: "timestamp object", input: map[string]any{"seconds": float64(want.Unix()), "nanoseconds": float64(0)}, want: want, wantOK: true},
		{name: "underscore timestamp object", input: map[string]any{"_seconds": float64(want.Unix()), "_nanoseconds": float64(0)}, want: want, wantOK: true},
		{name: "object without seconds", input: map[string]any{"foo": 1.0}, wantOK: false},
		{name: "garbage string", input: "yesterday", wantOK: false},
		{name: "empty string", input: "", wantOK: false},
		{name: "unsupported type", input: []int{1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseTimestamp() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestamp_RoundTrip(t *testing.T) {
	raw := []byte(`{"id":"a","brand":"b","name":"n","category":"serum","safetyScore":80,"harshnessLevel":1,"createdAt":{"seconds": 1709634600, "nanoseconds": 0},"updatedAt":"2024-03-06T00:00:00Z"}`)

	var rec ItemRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	created, ok := rec.CreatedAt.Time()
	if !ok || created.Unix() != 1709634600 {
		t.Errorf("CreatedAt.Time() = %v, %v", created, ok)
	}

	first, err := json.Marshal(&rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var again ItemRecord
	if err := json.Unmarshal(first, &again); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	second, err := json.Marshal(&again)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("re-serialization is not stable:\n%s\n%s", first, second)
	}
}

func TestTimestamp_Null(t *testing.T) {
	var rec ItemRecord
	if err := json.Unmarshal([]byte(`{"id":"a","createdAt":null}`), &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !rec.CreatedAt.IsZero() {
		t.Errorf("CreatedAt.IsZero() = false, want true")
	}
	if _, ok := rec.Latest(); ok {
		t.Errorf("Latest() ok = true for record without timestamps")
	}
}

func TestItemRecord_Latest(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record ItemRecord
		want   time.Time
		wantOK bool
	}{
		{name: "both, updated later", record: ItemRecord{CreatedAt: TimestampOf(early), UpdatedAt: TimestampOf(late)}, want: late, wantOK: true},
		{name: "both, created later", record: ItemRecord{CreatedAt: TimestampOf(late), UpdatedAt: TimestampOf(early)}, want: late, wantOK: true},
		{name: "created only", record: ItemRecord{CreatedAt: TimestampOf(early)}, want: early, wantOK: true},
		{name: "updated only", record: ItemRecord{UpdatedAt: TimestampOf(late)}, want: late, wantOK: true},
		{name: "neither", record: ItemRecord{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.Latest()
			if ok != tt.wantOK {
				t.Fatalf("Latest() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Latest() = %v, want %v", got, tt.want)
			}
		})
	}
}
