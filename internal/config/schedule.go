package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/exam-appointment-booking/internal/model"
	"github.com/iliyamo/exam-appointment-booking/internal/schedule"
)

// ScheduleConfig describes the bookable calendar.  EndDate wins over
// HorizonDays when both are set.
type ScheduleConfig struct {
	Timezone    string
	EndDate     string // YYYY-MM-DD, inclusive
	HorizonDays int
	DayStart    string // first slot, HH:MM
	DayEnd      string // last slot, HH:MM
	ClosedDay   string // weekday name, e.g. "sunday"
}

// LoadScheduleConfig reads the slot calendar settings.
func LoadScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Timezone:    envStr("APP_TIMEZONE", "UTC"),
		EndDate:     envStr("SLOTS_END_DATE", ""),
		HorizonDays: envInt("SLOTS_HORIZON_DAYS", 90),
		DayStart:    envStr("SLOTS_DAY_START", "09:30"),
		DayEnd:      envStr("SLOTS_DAY_END", "16:30"),
		ClosedDay:   envStr("SLOTS_CLOSED_DAY", "sunday"),
	}
}

// Calendar resolves the configuration against today.
func (c ScheduleConfig) Calendar(today time.Time) (schedule.Calendar, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return schedule.Calendar{}, fmt.Errorf("load timezone: %w", err)
	}
	first, err := schedule.ParseClock(c.DayStart)
	if err != nil {
		return schedule.Calendar{}, err
	}
	last, err := schedule.ParseClock(c.DayEnd)
	if err != nil {
		return schedule.Calendar{}, err
	}
	if last < first {
		return schedule.Calendar{}, fmt.Errorf("day end %s before day start %s", c.DayEnd, c.DayStart)
	}
	closed, err := parseWeekday(c.ClosedDay)
	if err != nil {
		return schedule.Calendar{}, err
	}
	cal := schedule.Calendar{First: first, Last: last, Closed: closed, Location: loc}
	if c.EndDate != "" {
		end, err := time.ParseInLocation(model.DateLayout, c.EndDate, loc)
		if err != nil {
			return schedule.Calendar{}, fmt.Errorf("parse SLOTS_END_DATE: %w", err)
		}
		cal.End = end
	} else {
		cal.End = cal.Day(today).AddDate(0, 0, c.HorizonDays)
	}
	return cal, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
