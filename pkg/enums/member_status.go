package enums

import "fmt"

// MemberStatus is the derived standing of a gym member's current membership
// interval. It is computed, never stored.
type MemberStatus string

const (
	MemberStatusActive       MemberStatus = "active"
	MemberStatusExpiringSoon MemberStatus = "expiring_soon"
	MemberStatusCritical     MemberStatus = "critical"
	MemberStatusExpired      MemberStatus = "expired"
	MemberStatusInactive     MemberStatus = "inactive"
)

var validMemberStatuses = []MemberStatus{
	MemberStatusActive,
	MemberStatusExpiringSoon,
	MemberStatusCritical,
	MemberStatusExpired,
	MemberStatusInactive,
}

// String implements fmt.Stringer.
func (s MemberStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MemberStatus.
func (s MemberStatus) IsValid() bool {
	for _, candidate := range validMemberStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMemberStatus converts raw input into a MemberStatus.
func ParseMemberStatus(value string) (MemberStatus, error) {
	for _, candidate := range validMemberStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member status %q", value)
}
