package calendar

import (
	"time"
)

const keyLayout = "2006-01-02"

// Key formats a time as its local calendar-day key.
func Key(t time.Time) string {
	return t.In(time.Local).Format(keyLayout)
}

// ParseKey parses a "YYYY-MM-DD" key at local midnight.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(keyLayout, key, time.Local)
}

// ValidKey reports whether key is a well-formed date key.
func ValidKey(key string) bool {
	_, err := ParseKey(key)
	return err == nil && len(key) == 10
}

// StartOfDayEpoch converts a date key to the unix seconds of local
// midnight. Returns 0 for an empty or malformed key.
func StartOfDayEpoch(key string) int64 {
	t, err := ParseKey(key)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// EndOfDayEpoch converts a date key to unix seconds at 23:59:59.999
// local, making the key usable as an inclusive range bound. Returns 0
// for an empty or malformed key.
func EndOfDayEpoch(key string) int64 {
	t, err := ParseKey(key)
	if err != nil {
		return 0
	}
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.Local)
	return end.Unix()
}
