package domain

// CoachType determines the seat layout and merged-seat rules of a coach.
type CoachType string

const (
	CoachTypeStandard  CoachType = "STANDARD"
	CoachTypeLimousine CoachType = "LIMOUSINE"
	CoachTypeBed       CoachType = "BED"
)

// Coach represents a physical vehicle. Coaches are reference data managed
// outside this service and never change once trips have been sold.
type Coach struct {
	ID        int64
	Name      string
	CoachType CoachType
	Capacity  int
}

// ValidCoachType reports whether ct is part of the fixed enumeration.
func ValidCoachType(ct CoachType) bool {
	switch ct {
	case CoachTypeStandard, CoachTypeLimousine, CoachTypeBed:
		return true
	default:
		return false
	}
}
