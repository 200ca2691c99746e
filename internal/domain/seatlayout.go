package domain

import "fmt"

// Floor identifies one of the two decks of a coach.
type Floor string

const (
	FloorDownStair Floor = "DOWN_STAIR"
	FloorUpStair   Floor = "UP_STAIR"
)

const seatsPerFloor = 18

// SeatLayout is the immutable seat topology for one coach type. Seat codes
// are "A1".."A18" on the down-stair deck and "B1".."B18" on the up-stair
// deck. LIMOUSINE and BED coaches replace the two front seats with
// double-width berths: A1/B1 each span two slots and the paired codes
// A18/B18 are suppressed from sale.
type SeatLayout struct {
	coachType   CoachType
	seats       []string
	addressable map[string]struct{}
	suppressed  map[string]struct{}
	doubleWidth map[string]struct{}
}

var layoutCatalog = map[CoachType]*SeatLayout{
	CoachTypeStandard:  buildLayout(CoachTypeStandard),
	CoachTypeLimousine: buildLayout(CoachTypeLimousine),
	CoachTypeBed:       buildLayout(CoachTypeBed),
}

func buildLayout(ct CoachType) *SeatLayout {
	l := &SeatLayout{
		coachType:   ct,
		addressable: make(map[string]struct{}),
		suppressed:  make(map[string]struct{}),
		doubleWidth: make(map[string]struct{}),
	}

	merged := ct == CoachTypeLimousine || ct == CoachTypeBed
	for _, prefix := range []string{"A", "B"} {
		for i := 1; i <= seatsPerFloor; i++ {
			code := fmt.Sprintf("%s%d", prefix, i)
			if merged && i == seatsPerFloor {
				l.suppressed[code] = struct{}{}
				continue
			}
			if merged && i == 1 {
				l.doubleWidth[code] = struct{}{}
			}
			l.seats = append(l.seats, code)
			l.addressable[code] = struct{}{}
		}
	}
	return l
}

// LayoutFor returns the seat layout for the given coach type.
func LayoutFor(ct CoachType) (*SeatLayout, error) {
	layout, ok := layoutCatalog[ct]
	if !ok {
		return nil, ErrUnknownCoachType
	}
	return layout, nil
}

// IsAddressable reports whether code names a real, sellable slot for the
// given coach type.
func IsAddressable(ct CoachType, code string) (bool, error) {
	layout, err := LayoutFor(ct)
	if err != nil {
		return false, err
	}
	return layout.IsAddressable(code), nil
}

// CoachType returns the coach type this layout belongs to.
func (l *SeatLayout) CoachType() CoachType { return l.coachType }

// AddressableSeats returns the ordered sellable seat codes. The returned
// slice is a copy; the layout itself is never mutated.
func (l *SeatLayout) AddressableSeats() []string {
	seats := make([]string, len(l.seats))
	copy(seats, l.seats)
	return seats
}

// IsAddressable reports whether code is a sellable slot in this layout.
func (l *SeatLayout) IsAddressable(code string) bool {
	_, ok := l.addressable[code]
	return ok
}

// IsDoubleWidth reports whether code is a merged double-width front berth.
func (l *SeatLayout) IsDoubleWidth(code string) bool {
	_, ok := l.doubleWidth[code]
	return ok
}

// FloorOf returns the deck a seat code belongs to.
func (l *SeatLayout) FloorOf(code string) (Floor, bool) {
	if !l.IsAddressable(code) {
		return "", false
	}
	if code[0] == 'A' {
		return FloorDownStair, true
	}
	return FloorUpStair, true
}

// SeatCount returns the number of addressable seats.
func (l *SeatLayout) SeatCount() int { return len(l.seats) }
