package flows

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	weekdaySlots = []string{
		"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"1:00 PM", "1:30 PM", "2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM",
	}
	saturdaySlots = []string{"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM"}
)

// Slots lists the appointment times offered on date (YYYY-MM-DD). Offices are
// closed on Sundays.
func Slots(date string) ([]string, error) {
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	switch day.Weekday() {
	case time.Sunday:
		return []string{}, nil
	case time.Saturday:
		return slices.Clone(saturdaySlots), nil
	default:
		return slices.Clone(weekdaySlots), nil
	}
}

// SlotOffered reports whether slot is bookable on date.
func SlotOffered(date, slot string) bool {
	offered, err := Slots(date)
	if err != nil {
		return false
	}
	slot = strings.TrimSpace(slot)
	for _, s := range offered {
		if strings.EqualFold(s, slot) {
			return true
		}
	}
	return false
}
