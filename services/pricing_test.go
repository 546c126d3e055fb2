package services

import (
	"testing"
	"time"
)

func TestNights(t *testing.T) {
	tests := []struct {
		name    string
		in, out time.Time
		want    int
	}{
		{"three nights", date("2024-03-10"), date("2024-03-13"), 3},
		{"same day", date("2024-03-10"), date("2024-03-10"), 1},
		{"partial day rounds up", time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC), 2},
		{"hours within a day", time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC), 1},
		{"reversed floors to one", date("2024-03-13"), date("2024-03-10"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nights(tt.in, tt.out); got != tt.want {
				t.Fatalf("Nights = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPriceStay(t *testing.T) {
	q := PriceStay(dec("5500"), date("2024-03-10"), date("2024-03-13"))
	if q.Nights != 3 {
		t.Fatalf("expected 3 nights, got %d", q.Nights)
	}
	if !q.Total.Equal(dec("16500")) {
		t.Fatalf("expected total 16500, got %s", q.Total)
	}
	if !q.PricePerNight.Equal(dec("5500")) {
		t.Fatalf("expected price per night 5500, got %s", q.PricePerNight)
	}

	dayUse := PriceStay(dec("1250.50"), date("2024-03-10"), date("2024-03-10"))
	if dayUse.Nights != 1 || !dayUse.Total.Equal(dec("1250.50")) {
		t.Fatalf("day use: expected 1 night at 1250.50, got %d / %s", dayUse.Nights, dayUse.Total)
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-03-10", "2024-03-13", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if !r.CheckIn.Equal(date("2024-03-10")) || !r.CheckOut.Equal(date("2024-03-13")) {
		t.Fatalf("unexpected range %+v", r)
	}

	bkk := time.FixedZone("ICT", 7*3600)
	r, err = ParseDateRange("2024-03-10T23:30:00+07:00", "2024-03-11T11:00:00+07:00", bkk)
	if err != nil {
		t.Fatalf("ParseDateRange timestamps: %v", err)
	}
	if !r.CheckIn.Equal(date("2024-03-10")) || !r.CheckOut.Equal(date("2024-03-11")) {
		t.Fatalf("expected hotel calendar dates 10th..11th, got %s..%s", r.CheckIn, r.CheckOut)
	}
	from, to := r.bounds()
	if Nights(from, to) != 1 {
		t.Fatalf("expected 1 night for 11.5h stay, got %d", Nights(from, to))
	}

	for _, bad := range [][2]string{
		{"2024-03-13", "2024-03-10"},
		{"", "2024-03-10"},
		{"2024-03-10", "13/03/2024"},
	} {
		if _, err := ParseDateRange(bad[0], bad[1], time.UTC); err == nil {
			t.Fatalf("expected error for %q..%q", bad[0], bad[1])
		} else {
			assertValidation(t, err)
		}
	}
}
