package lifecycle

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// Status thresholds, in whole calendar days before the membership end date.
const (
	CriticalDays = 7
	ExpiringDays = 30

	// FallbackDurationDays is applied when a member references a membership
	// type that no longer resolves. Callers must log the fallback.
	FallbackDurationDays = 30
)

// ErrUnknownMembershipType is returned when a reference resolves neither to a
// registry row nor to a legacy plan literal.
var ErrUnknownMembershipType = errors.New("unknown membership type")

// Midnight truncates a timestamp to its UTC calendar day. All day arithmetic
// in this package goes through it so that time-of-day and zone offsets never
// shift a boundary.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)) / (24 * time.Hour))
}

// ComputeEndDate resolves a membership interval's end date from its start and
// type reference. Registry durations add whole days; legacy literals use
// calendar-unit arithmetic so that a monthly plan started Jan 15 ends Feb 15
// regardless of month length.
func ComputeEndDate(start time.Time, ref TypeRef, reg TypeRegistry) (time.Time, error) {
	day := Midnight(start)
	switch ref.Kind {
	case RefRegistry:
		if reg != nil {
			if mt, ok := reg.Lookup(ref.RegistryID); ok {
				return day.AddDate(0, 0, mt.DurationDays), nil
			}
		}
		return time.Time{}, ErrUnknownMembershipType
	case RefLegacy:
		switch ref.Legacy {
		case enums.LegacyPlanMonthly:
			return day.AddDate(0, 1, 0), nil
		case enums.LegacyPlanQuarterly:
			return day.AddDate(0, 3, 0), nil
		case enums.LegacyPlanYearly:
			return day.AddDate(1, 0, 0), nil
		}
	}
	return time.Time{}, ErrUnknownMembershipType
}

// ComputeEndDateOrFallback is ComputeEndDate with the 30-day fallback applied
// for unresolvable references. The second return reports whether the fallback
// was used so callers can log it.
func ComputeEndDateOrFallback(start time.Time, ref TypeRef, reg TypeRegistry) (time.Time, bool) {
	end, err := ComputeEndDate(start, ref, reg)
	if err != nil {
		return Midnight(start).AddDate(0, 0, FallbackDurationDays), true
	}
	return end, false
}

// Snapshot is the derived standing of a member at a point in time.
type Snapshot struct {
	Status        enums.MemberStatus
	DaysRemaining int
	ProgressPct   float64
}

// ComputeStatus derives a member's standing. Precedence: an inactive flag
// wins outright, then expired, critical, expiring soon, active.
func ComputeStatus(m models.Member, now time.Time) Snapshot {
	days := DaysBetween(now, m.MembershipEnd)
	snap := Snapshot{
		DaysRemaining: days,
		ProgressPct:   progress(m.MembershipStart, m.MembershipEnd, now),
	}

	switch {
	case !m.IsActive:
		snap.Status = enums.MemberStatusInactive
	case days < 0:
		snap.Status = enums.MemberStatusExpired
	case days <= CriticalDays:
		snap.Status = enums.MemberStatusCritical
	case days <= ExpiringDays:
		snap.Status = enums.MemberStatusExpiringSoon
	default:
		snap.Status = enums.MemberStatusActive
	}
	return snap
}

func progress(start, end, now time.Time) float64 {
	total := DaysBetween(start, end)
	if total <= 0 {
		return 100
	}
	elapsed := DaysBetween(start, now)
	pct := float64(elapsed) / float64(total) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AlertFor reports whether a member currently qualifies for an alert and, if
// so, which kind. Only active members alert; the expired branch has no lower
// bound on how long ago the membership lapsed.
func AlertFor(m models.Member, now time.Time) (enums.AlertType, int, bool) {
	if !m.IsActive {
		return "", 0, false
	}
	days := DaysBetween(now, m.MembershipEnd)
	if days > ExpiringDays {
		return "", days, false
	}
	if days < 0 {
		return enums.AlertTypeExpired, days, true
	}
	return enums.AlertTypeExpiring, days, true
}

// Renew re-bases the membership interval from today, reactivates the member,
// and refreshes the price snapshot when the reference still resolves to a
// registry row. Legacy-literal members keep their existing snapshot since the
// registry has no row to price from. Returns whether the duration fallback
// was applied.
func Renew(m *models.Member, reg TypeRegistry, now time.Time, editorID *uuid.UUID) bool {
	ref := ParseTypeRef(m.MembershipTypeRef)
	start := Midnight(now)
	end, fellBack := ComputeEndDateOrFallback(start, ref, reg)

	m.MembershipStart = start
	m.MembershipEnd = end
	m.IsActive = true
	if editorID != nil {
		m.LastEditedByUserID = editorID
	}

	if ref.Kind == RefRegistry && reg != nil {
		if mt, ok := reg.Lookup(ref.RegistryID); ok {
			m.MembershipAmount = mt.Price
		}
	}
	return fellBack
}

// RebaseEnd recomputes the end date from the member's existing start date.
// Used when an edit changes the membership type without renewing. Returns
// whether the duration fallback was applied.
func RebaseEnd(m *models.Member, reg TypeRegistry) bool {
	ref := ParseTypeRef(m.MembershipTypeRef)
	end, fellBack := ComputeEndDateOrFallback(m.MembershipStart, ref, reg)
	m.MembershipEnd = end
	return fellBack
}
