package enums

import "fmt"

// LegacyPlan is one of the flat plan literals that predate the per-gym
// membership-type registry. Members created before the registry existed still
// reference these on their membership type field.
type LegacyPlan string

const (
	LegacyPlanMonthly   LegacyPlan = "monthly"
	LegacyPlanQuarterly LegacyPlan = "quarterly"
	LegacyPlanYearly    LegacyPlan = "yearly"
)

var validLegacyPlans = []LegacyPlan{
	LegacyPlanMonthly,
	LegacyPlanQuarterly,
	LegacyPlanYearly,
}

// String implements fmt.Stringer.
func (p LegacyPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known LegacyPlan.
func (p LegacyPlan) IsValid() bool {
	for _, candidate := range validLegacyPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseLegacyPlan converts raw input into a LegacyPlan.
func ParseLegacyPlan(value string) (LegacyPlan, error) {
	for _, candidate := range validLegacyPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid legacy plan %q", value)
}
