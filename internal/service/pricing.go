package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"coachbooking/internal/domain"
)

// PricingService computes payable amounts and price-change notes. It is
// stateless; every call prices against the trip data it is handed, so a
// discount change is reflected on the very next query.
type PricingService struct{}

// NewPricingService creates a new PricingService.
func NewPricingService() *PricingService {
	return &PricingService{}
}

// PayableAmount returns the amount the customer pays for one seat on the
// trip: the stored price minus any active discount. A negative result is
// not clamped; a discount exceeding the price is a data-entry error that
// belongs upstream, not something to correct silently here.
func (s *PricingService) PayableAmount(trip *domain.Trip) int64 {
	price := trip.Price
	d := trip.Discount
	if d == nil || !d.ActiveAt(time.Now()) {
		return price
	}
	if d.Amount != 0 {
		return price - d.Amount
	}
	if d.Percent != 0 {
		return price - int64(float64(price)*d.Percent/100)
	}
	return price
}

// PriceChangeNote renders the human-readable delta between the payable
// amounts of two trips, e.g.
//
//	Old trip price(₫450,000) => New trip price(₫600,000), changed: +₫150,000
//
// The sign is "+" when the new price is greater than or equal to the old.
func (s *PricingService) PriceChangeNote(newTrip, oldTrip *domain.Trip) string {
	newPrice := s.PayableAmount(newTrip)
	oldPrice := s.PayableAmount(oldTrip)

	msg := fmt.Sprintf("Old trip price(%s) => New trip price(%s), changed: ",
		FormatVND(oldPrice), FormatVND(newPrice))

	if newPrice >= oldPrice {
		msg += "+" + FormatVND(newPrice-oldPrice)
	} else {
		msg += "-" + FormatVND(oldPrice-newPrice)
	}
	return msg
}

// MergeNote prepends a price-change note to the booking's existing
// freeform note, comma-joined. Prior notes are kept, never replaced.
func (s *PricingService) MergeNote(priceNote, existing string) string {
	if existing == "" {
		return priceNote
	}
	return priceNote + ", " + existing
}

// FormatVND renders an integer VND amount with a leading đồng sign and
// comma thousand separators.
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	str := strconv.FormatInt(amount, 10)
	var out strings.Builder
	out.WriteString(sign)
	out.WriteString("₫")
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
