package flows

import (
	"errors"
	"testing"
)

func TestSlots(t *testing.T) {
	weekday, err := Slots("2026-10-19")
	if err != nil {
		t.Fatalf("Slots failed: %v", err)
	}
	if len(weekday) != len(weekdaySlots) {
		t.Fatalf("expected %d weekday slots, got %d", len(weekdaySlots), len(weekday))
	}
	weekday[0] = "mutated"
	if weekdaySlots[0] != "9:00 AM" {
		t.Fatal("Slots must return a copy")
	}

	sunday, err := Slots("2026-10-25")
	if err != nil || len(sunday) != 0 {
		t.Fatalf("expected no Sunday slots, got %v, %v", sunday, err)
	}

	if _, err := Slots("tomorrow"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestSlotOffered(t *testing.T) {
	cases := []struct {
		date, slot string
		want       bool
	}{
		{"2026-10-19", "4:30 PM", true},
		{"2026-10-19", " 4:30 pm ", true},
		{"2026-10-19", "5:00 PM", false},
		{"2026-10-24", "1:00 PM", false},
		{"2026-10-25", "9:00 AM", false},
		{"bad", "9:00 AM", false},
	}
	for _, c := range cases {
		if got := SlotOffered(c.date, c.slot); got != c.want {
			t.Errorf("SlotOffered(%q, %q) = %v, want %v", c.date, c.slot, got, c.want)
		}
	}
}
