package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"homeserve/models"
	"homeserve/services/apperr"
)

const dateLayout = "2006-01-02"

// timeWindow is a validated booking slot.
type timeWindow struct {
	Date      string
	Start     int
	End       int
	StartTime string
	EndTime   string
	StartAt   time.Time
}

// parseClock turns "HH:MM" into minutes from midnight. "24:00" is accepted
// as an end of day.
func parseClock(field, s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, apperr.Validation(field, "must be HH:MM, got %q", s)
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, apperr.Validation(field, "must be HH:MM, got %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parseWindow validates the date and times and checks that the slot starts
// after now.
func parseWindow(date, startTime, endTime string, loc *time.Location, now time.Time) (timeWindow, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return timeWindow{}, apperr.Validation("date", "must be YYYY-MM-DD, got %q", date)
	}
	start, err := parseClock("startTime", startTime)
	if err != nil {
		return timeWindow{}, err
	}
	if start == 24*60 {
		return timeWindow{}, apperr.Validation("startTime", "must be before 24:00")
	}
	end, err := parseClock("endTime", endTime)
	if err != nil {
		return timeWindow{}, err
	}
	if start >= end {
		return timeWindow{}, apperr.Validation("endTime", "must be after startTime")
	}

	startAt := time.Date(day.Year(), day.Month(), day.Day(), start/60, start%60, 0, 0, loc)
	if !startAt.After(now) {
		return timeWindow{}, apperr.Validation("date", "booking must start in the future")
	}
	return timeWindow{
		Date:      day.Format(dateLayout),
		Start:     start,
		End:       end,
		StartTime: formatClock(start),
		EndTime:   formatClock(end),
		StartAt:   startAt,
	}, nil
}

// computeAmount is hourly rate times duration, rounded to cents.
func computeAmount(hourlyRate float64, start, end int) float64 {
	hours := float64(end-start) / 60
	return math.Round(hourlyRate*hours*100) / 100
}

func validateStatusFilter(status string) error {
	if status != "" && !models.IsBookingStatus(status) {
		return apperr.Validation("status", "unknown booking status %q", status)
	}
	return nil
}

func (w timeWindow) apply(b *models.Booking) {
	b.Date = w.Date
	b.Start = w.Start
	b.End = w.End
	b.StartTime = w.StartTime
	b.EndTime = w.EndTime
	b.StartAt = w.StartAt
}
