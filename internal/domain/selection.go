package domain

import "sort"

// DefaultMaxSeatSelect is the selection limit for the single-passenger
// booking flow.
const DefaultMaxSeatSelect = 1

// SeatSelectionState tracks the seats an operator has chosen during one
// editing session, together with the seats held by other bookings at the
// time the state was built. It is a plain value with explicit transitions;
// callers must rebuild it (Reset) whenever the trip or availability changes.
type SeatSelectionState struct {
	chosen    map[string]struct{}
	held      map[string]struct{}
	maxSelect int
}

// NewSeatSelectionState creates a selection state over the given held
// seats. maxSelect <= 0 falls back to DefaultMaxSeatSelect.
func NewSeatSelectionState(held []string, maxSelect int) *SeatSelectionState {
	if maxSelect <= 0 {
		maxSelect = DefaultMaxSeatSelect
	}
	s := &SeatSelectionState{
		chosen:    make(map[string]struct{}),
		held:      make(map[string]struct{}, len(held)),
		maxSelect: maxSelect,
	}
	for _, code := range held {
		s.held[code] = struct{}{}
	}
	return s
}

// Select adds code to the chosen set. Selecting a seat held by another
// booking fails with ErrSeatUnavailable; selecting beyond the limit fails
// with ErrSelectionLimitReached. Re-selecting an already-chosen seat is a
// no-op. A full selection is never evicted silently; the caller must
// Deselect first.
func (s *SeatSelectionState) Select(code string) error {
	if _, held := s.held[code]; held {
		return ErrSeatUnavailable
	}
	if _, ok := s.chosen[code]; ok {
		return nil
	}
	if len(s.chosen) >= s.maxSelect {
		return ErrSelectionLimitReached
	}
	s.chosen[code] = struct{}{}
	return nil
}

// Deselect removes code from the chosen set. Deselecting a seat that is
// not chosen is a no-op; Deselect never fails.
func (s *SeatSelectionState) Deselect(code string) {
	delete(s.chosen, code)
}

// Reset clears the chosen set and replaces the held set. Used on trip swap,
// when the previous selection is no longer meaningful.
func (s *SeatSelectionState) Reset(held []string) {
	s.chosen = make(map[string]struct{})
	s.held = make(map[string]struct{}, len(held))
	for _, code := range held {
		s.held[code] = struct{}{}
	}
}

// Chosen returns the chosen seat codes in stable order.
func (s *SeatSelectionState) Chosen() []string {
	codes := make([]string, 0, len(s.chosen))
	for code := range s.chosen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsChosen reports whether code is currently chosen.
func (s *SeatSelectionState) IsChosen(code string) bool {
	_, ok := s.chosen[code]
	return ok
}
