// Package schedule holds the slot calendar: which days are open, which
// half-hour times exist on an open day, and which of them may still be
// offered at a given instant.  It is pure and clock-injected so the
// booking workflow and its tests share the same rules.
package schedule

import (
	"fmt"
	"time"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
)

// Step is the slot granularity.
const Step = 30 * time.Minute

// Calendar describes the bookable period.  First and Last are offsets from
// midnight of the first and last slot of a day (both inclusive).
type Calendar struct {
	End      time.Time // last bookable day, midnight in Location
	First    time.Duration
	Last     time.Duration
	Closed   time.Weekday
	Location *time.Location
}

// ParseClock converts "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// NormalizeTime accepts "9:30", "09:30" or "09:30:00" and returns "09:30".
// It rejects values that are not on a Step boundary.
func NormalizeTime(raw string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Second() != 0 || t.Minute()%int(Step/time.Minute) != 0 {
			return "", fmt.Errorf("time %q is not on a %s boundary", raw, Step)
		}
		return t.Format(model.TimeLayout), nil
	}
	return "", fmt.Errorf("invalid time %q", raw)
}

// Day truncates t to midnight in the calendar location.
func (c Calendar) Day(t time.Time) time.Time {
	t = t.In(c.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location)
}

// ParseDate parses a YYYY-MM-DD string as a day in the calendar location.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, c.Location)
}

// Times returns every slot time of an open day in ascending order.
func (c Calendar) Times() []string {
	var out []string
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for off := c.First; off <= c.Last; off += Step {
		out = append(out, base.Add(off).Format(model.TimeLayout))
	}
	return out
}

// IsOpen reports whether day lies in [today, End] and is not the closed weekday.
func (c Calendar) IsOpen(day, today time.Time) bool {
	day = c.Day(day)
	if day.Weekday() == c.Closed {
		return false
	}
	return !day.Before(c.Day(today)) && !day.After(c.End)
}

// Generate lists every slot from today through End, skipping the closed
// weekday.  All slots start available.
func (c Calendar) Generate(today time.Time) []model.Slot {
	times := c.Times()
	var slots []model.Slot
	for d := c.Day(today); !d.After(c.End); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == c.Closed {
			continue
		}
		date := d.Format(model.DateLayout)
		for _, t := range times {
			slots = append(slots, model.Slot{Date: date, Time: t, Available: true})
		}
	}
	return slots
}

// NextBoundary rounds now up to the next Step boundary.  A value already
// on a boundary is returned unchanged.
func NextBoundary(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)
	if rem := elapsed % Step; rem != 0 {
		elapsed += Step - rem
	}
	return midnight.Add(elapsed)
}

// Bookable filters the stored free times of date down to the ones that can
// still be offered at now.  Dates that fail to parse, lie outside the
// calendar or fall on the closed weekday yield nil.
func (c Calendar) Bookable(date string, free []string, now time.Time) []string {
	day, err := c.ParseDate(date)
	if err != nil || !c.IsOpen(day, now) {
		return nil
	}
	if !day.Equal(c.Day(now)) {
		return append([]string(nil), free...)
	}
	next := NextBoundary(now.In(c.Location))
	if !c.Day(next).Equal(day) {
		return nil
	}
	cutoff := next.Format(model.TimeLayout)
	var out []string
	for _, t := range free {
		if t >= cutoff {
			out = append(out, t)
		}
	}
	return out
}
