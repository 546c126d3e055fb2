package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the price frozen onto a reservation at booking time.
type Quote struct {
	Nights        int
	PricePerNight decimal.Decimal
	Total         decimal.Decimal
}

// Nights counts started 24h periods between check-in and check-out, never
// fewer than one.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 1
	}
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	return n
}

func PriceStay(basePrice decimal.Decimal, checkIn, checkOut time.Time) Quote {
	nights := Nights(checkIn, checkOut)
	return Quote{
		Nights:        nights,
		PricePerNight: basePrice,
		Total:         basePrice.Mul(decimal.NewFromInt(int64(nights))),
	}
}
