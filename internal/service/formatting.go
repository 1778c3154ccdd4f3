package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/validator"
)

var dayCodes = []struct {
	full  string
	code  string
	label string
}{
	{"monday", "mon", "Monday"},
	{"tuesday", "tue", "Tuesday"},
	{"wednesday", "wed", "Wednesday"},
	{"thursday", "thu", "Thursday"},
	{"friday", "fri", "Friday"},
	{"saturday", "sat", "Saturday"},
	{"sunday", "sun", "Sunday"},
}

// FormatMeetingDays maps any text naming weekdays (full names or three
// letter codes) to "mon|wed|..." in Monday-first order.
func FormatMeetingDays(days string) string {
	lower := strings.ToLower(days)
	codes := make([]string, 0, len(dayCodes))
	for _, d := range dayCodes {
		if strings.Contains(lower, d.full) || strings.Contains(lower, d.code) {
			codes = append(codes, d.code)
		}
	}
	return strings.Join(codes, "|")
}

// DayLabels turns "mon|wed" into "Monday/Wednesday".
func DayLabels(codes string) string {
	labels := make([]string, 0, len(dayCodes))
	for _, code := range strings.Split(codes, "|") {
		for _, d := range dayCodes {
			if strings.EqualFold(strings.TrimSpace(code), d.code) {
				labels = append(labels, d.label)
				break
			}
		}
	}
	return strings.Join(labels, "/")
}

// FormatTime renders HH:MM as a 12 hour clock without a leading zero, e.g. "3:30 PM".
func FormatTime(raw string) (string, error) {
	t, err := validator.ParseClock(raw)
	if err != nil {
		return "", err
	}
	return t.Format("3:04 PM"), nil
}

// ExtractHour returns the hour part of a formatted time.
func ExtractHour(formatted string) string {
	hour, _, found := strings.Cut(formatted, ":")
	if !found {
		return ""
	}
	return hour
}

// FilterExcludedDates keeps the excluded dates that fall inside the class
// window on a meeting day and drops the rest, logging each one.
func FilterExcludedDates(excluded []string, start, end models.Date, meetingDays []string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	days := make(map[time.Weekday]struct{}, len(meetingDays))
	for _, name := range meetingDays {
		if day, ok := models.ParseWeekday(name); ok {
			days[day] = struct{}{}
		}
	}

	kept := make([]string, 0, len(excluded))
	for _, raw := range excluded {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		date, err := models.ParseDate(raw)
		if err != nil {
			logger.Warn("dropping malformed excluded date", zap.String("date", raw), zap.Error(err))
			continue
		}
		if date.Before(start.Time) || date.After(end.Time) {
			logger.Info("dropping excluded date outside class window", zap.String("date", raw))
			continue
		}
		if _, ok := days[date.Weekday()]; !ok {
			logger.Info("dropping excluded date not on a meeting day", zap.String("date", raw), zap.String("weekday", date.Weekday().String()))
			continue
		}
		kept = append(kept, date.String())
	}
	return strings.Join(kept, ",")
}
