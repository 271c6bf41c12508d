package heatmap

import (
	"fmt"
	"time"
)

const (
	DefaultDays = 365
	MaxDays     = 3660
	MinTZOffset = -12
	MaxTZOffset = 14
)

// Window is the contiguous run of calendar days shown on the grid. Start and
// End are inclusive dates expressed as midnight UTC.
type Window struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// NewWindow builds the trailing window of days ending on today's date as seen
// from a fixed UTC offset.
func NewWindow(now time.Time, days, tzOffsetHours int) (Window, error) {
	if days < 1 || days > MaxDays {
		return Window{}, fmt.Errorf("days must be within 1..%d, got %d", MaxDays, days)
	}
	if tzOffsetHours < MinTZOffset || tzOffsetHours > MaxTZOffset {
		return Window{}, fmt.Errorf("tz offset must be within %d..%d, got %d", MinTZOffset, MaxTZOffset, tzOffsetHours)
	}
	loc := time.FixedZone(fmt.Sprintf("UTC%+d", tzOffsetHours), tzOffsetHours*3600)
	w := Window{Location: loc}
	w.End = w.DayOf(now)
	w.Start = w.End.AddDate(0, 0, -(days - 1))
	return w, nil
}

// DayOf returns the calendar date of t under the window's offset.
func (w Window) DayOf(t time.Time) time.Time {
	local := t.In(w.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// epochDay numbers a midnight-UTC date by whole days since 1970-01-01.
// Unlike time.Duration it does not saturate for distant dates.
func epochDay(date time.Time) int64 {
	return date.Unix() / 86400
}

func (w Window) Days() int {
	return int(epochDay(w.End)-epochDay(w.Start)) + 1
}

func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// DayBucket aggregates every record that falls on Date.
type DayBucket struct {
	Date  time.Time
	Count int
	Kinds KindSet
}

func (b DayBucket) Level() int {
	return LevelFor(b.Count)
}

// Bucketize assigns each record to the day it falls on and returns one bucket
// per day of the window, oldest first. Records outside the window are dropped.
func Bucketize(records []Record, w Window) []DayBucket {
	days := w.Days()
	buckets := make([]DayBucket, days)
	for i := range buckets {
		buckets[i].Date = w.Start.AddDate(0, 0, i)
	}
	for _, r := range records {
		date := w.DayOf(r.Time)
		if !w.Contains(date) {
			continue
		}
		idx := int(epochDay(date) - epochDay(w.Start))
		buckets[idx].Count++
		buckets[idx].Kinds.Add(r.Kind)
	}
	return buckets
}

// Total sums the counts of all buckets.
func Total(buckets []DayBucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}
