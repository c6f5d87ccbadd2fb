package lifecycle

import (
	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// RefKind discriminates the two shapes a member's membership type reference
// can take, plus the unknown bucket.
type RefKind int

const (
	RefUnknown RefKind = iota
	RefRegistry
	RefLegacy
)

// TypeRef is the parsed form of Member.MembershipTypeRef.
type TypeRef struct {
	Kind       RefKind
	RegistryID uuid.UUID
	Legacy     enums.LegacyPlan
}

// ParseTypeRef classifies a raw membership type reference. A UUID points at
// the per-gym registry; the legacy flat plan literals resolve by calendar
// arithmetic; anything else is unknown.
func ParseTypeRef(raw string) TypeRef {
	if id, err := uuid.Parse(raw); err == nil {
		return TypeRef{Kind: RefRegistry, RegistryID: id}
	}
	if plan, err := enums.ParseLegacyPlan(raw); err == nil {
		return TypeRef{Kind: RefLegacy, Legacy: plan}
	}
	return TypeRef{Kind: RefUnknown}
}

// TypeRegistry resolves registry references against a gym's membership types.
type TypeRegistry interface {
	Lookup(id uuid.UUID) (models.MembershipType, bool)
}

type mapRegistry map[uuid.UUID]models.MembershipType

func (m mapRegistry) Lookup(id uuid.UUID) (models.MembershipType, bool) {
	mt, ok := m[id]
	return mt, ok
}

// RegistryFromTypes builds an in-memory TypeRegistry from loaded rows.
func RegistryFromTypes(types []models.MembershipType) TypeRegistry {
	reg := make(mapRegistry, len(types))
	for _, mt := range types {
		reg[mt.ID] = mt
	}
	return reg
}
