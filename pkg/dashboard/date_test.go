package dashboard

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name     string
		raw      string
		expected Date
		wantErr  bool
	}{
		{name: "calendar date", raw: "2026-03-15", expected: NewDate(2026, 3, 15)},
		{name: "timestamp keeps date", raw: "2026-03-15T23:10:00Z", expected: NewDate(2026, 3, 15)},
		{name: "blank is missing", raw: "  ", expected: Date{}},
		{name: "garbage", raw: "15/03/2026", wantErr: true},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			parsed, err := ParseDate(testCase.raw)
			if testCase.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					test.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				test.Fatalf("unexpected error: %v", err)
			}
			if parsed != testCase.expected {
				test.Fatalf("expected %v, got %v", testCase.expected, parsed)
			}
		})
	}
}

func TestClassifyBoundaries(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name     string
		expiry   Date
		expected ExpiryState
	}{
		{name: "missing", expiry: Date{}, expected: ExpiryMissing},
		{name: "yesterday", expiry: fixtureToday.AddDays(-1), expected: ExpiryExpired},
		{name: "today", expiry: fixtureToday, expected: ExpiryExpiringSoon},
		{name: "thirty days", expiry: fixtureToday.AddDays(30), expected: ExpiryExpiringSoon},
		{name: "thirty one days", expiry: fixtureToday.AddDays(31), expected: ExpiryValid},
	}
	for _, testCase := range testCases {
		if state := Classify(testCase.expiry, fixtureToday); state != testCase.expected {
			test.Fatalf("%s: expected %s, got %s", testCase.name, testCase.expected, state)
		}
	}
}

func TestDateOfDropsClock(test *testing.T) {
	test.Parallel()
	location := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2026, 3, 15, 23, 59, 0, 0, location)
	if DateOf(late) != NewDate(2026, 3, 15) {
		test.Fatalf("expected local calendar date, got %v", DateOf(late))
	}
	if days := NewDate(2026, 3, 1).DaysUntil(NewDate(2026, 3, 31)); days != 30 {
		test.Fatalf("expected 30 days, got %d", days)
	}
	if days := NewDate(2026, 3, 31).DaysUntil(NewDate(2026, 3, 1)); days != -30 {
		test.Fatalf("expected -30 days, got %d", days)
	}
}

func TestDateJSON(test *testing.T) {
	test.Parallel()
	type payload struct {
		Expiry Date `json:"expiry"`
	}
	encoded, err := json.Marshal(payload{})
	if err != nil {
		test.Fatalf("marshal failed: %v", err)
	}
	if string(encoded) != `{"expiry":null}` {
		test.Fatalf("unexpected encoding %s", encoded)
	}
	var decoded payload
	if err := json.Unmarshal([]byte(`{"expiry":"2026-04-01T00:00:00Z"}`), &decoded); err != nil {
		test.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Expiry != NewDate(2026, 4, 1) {
		test.Fatalf("unexpected date %v", decoded.Expiry)
	}
	if err := json.Unmarshal([]byte(`{"expiry":12}`), &decoded); !errors.Is(err, ErrInvalidDate) {
		test.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateScan(test *testing.T) {
	test.Parallel()
	var date Date
	if err := date.Scan(time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)); err != nil || date != NewDate(2026, 5, 2) {
		test.Fatalf("time scan: %v %v", date, err)
	}
	if err := date.Scan([]byte("2026-05-03")); err != nil || date != NewDate(2026, 5, 3) {
		test.Fatalf("bytes scan: %v %v", date, err)
	}
	if err := date.Scan(nil); err != nil || !date.IsZero() {
		test.Fatalf("nil scan: %v %v", date, err)
	}
	if err := date.Scan(42); !errors.Is(err, ErrInvalidDate) {
		test.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	value, err := NewDate(2026, 5, 4).Value()
	if err != nil || value.(time.Time) != time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC) {
		test.Fatalf("unexpected value %v %v", value, err)
	}
}
