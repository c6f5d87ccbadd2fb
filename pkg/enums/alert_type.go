package enums

import "fmt"

// AlertType distinguishes a membership that is inside the expiry window from
// one that has already lapsed.
type AlertType string

const (
	AlertTypeExpiring AlertType = "expiring"
	AlertTypeExpired  AlertType = "expired"
)

var validAlertTypes = []AlertType{
	AlertTypeExpiring,
	AlertTypeExpired,
}

// String implements fmt.Stringer.
func (a AlertType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertType.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw input into an AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}
