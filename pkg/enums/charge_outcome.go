package enums

import "fmt"

// ChargeOutcome is the result reported by the charge collaborator.
type ChargeOutcome string

const (
	ChargeOutcomeSuccess ChargeOutcome = "success"
	ChargeOutcomePending ChargeOutcome = "pending"
)

var validChargeOutcomes = []ChargeOutcome{
	ChargeOutcomeSuccess,
	ChargeOutcomePending,
}

// String implements fmt.Stringer.
func (c ChargeOutcome) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChargeOutcome.
func (c ChargeOutcome) IsValid() bool {
	for _, candidate := range validChargeOutcomes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChargeOutcome converts raw input into a ChargeOutcome.
func ParseChargeOutcome(value string) (ChargeOutcome, error) {
	for _, candidate := range validChargeOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge outcome %q", value)
}
