package members

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gymdesk/gymdesk-backend/internal/lifecycle"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

// MemberDTO is the API projection of a member, including the derived
// lifecycle snapshot at read time.
type MemberDTO struct {
	ID                uuid.UUID          `json:"id"`
	GymID             uuid.UUID          `json:"gym_id"`
	Name              string             `json:"name"`
	Email             *string            `json:"email,omitempty"`
	Phone             string             `json:"phone"`
	Address           *string            `json:"address,omitempty"`
	DateOfBirth       *string            `json:"date_of_birth,omitempty"`
	EmergencyContact  *string            `json:"emergency_contact,omitempty"`
	EmergencyPhone    *string            `json:"emergency_phone,omitempty"`
	PhotoURL          *string            `json:"photo_url,omitempty"`
	JoinDate          string             `json:"join_date"`
	MembershipTypeRef string             `json:"membership_type"`
	MembershipStart   string             `json:"membership_start"`
	MembershipEnd     string             `json:"membership_end"`
	MembershipAmount  decimal.Decimal    `json:"membership_amount"`
	IsActive          bool               `json:"is_active"`
	Status            enums.MemberStatus `json:"status"`
	DaysRemaining     int                `json:"days_remaining"`
	ProgressPct       float64            `json:"progress_pct"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return lifecycle.Midnight(t).Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

// FromModel converts a member row into the API shape, deriving status at now.
func FromModel(m *models.Member, now time.Time) *MemberDTO {
	if m == nil {
		return nil
	}
	snap := lifecycle.ComputeStatus(*m, now)
	return &MemberDTO{
		ID:                m.ID,
		GymID:             m.GymID,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		DateOfBirth:       formatDatePtr(m.DateOfBirth),
		EmergencyContact:  m.EmergencyContact,
		EmergencyPhone:    m.EmergencyPhone,
		PhotoURL:          m.PhotoURL,
		JoinDate:          formatDate(m.JoinDate),
		MembershipTypeRef: m.MembershipTypeRef,
		MembershipStart:   formatDate(m.MembershipStart),
		MembershipEnd:     formatDate(m.MembershipEnd),
		MembershipAmount:  m.MembershipAmount,
		IsActive:          m.IsActive,
		Status:            snap.Status,
		DaysRemaining:     snap.DaysRemaining,
		ProgressPct:       snap.ProgressPct,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// MemberPage is a cursor-paginated slice of members.
type MemberPage struct {
	Members    []MemberDTO `json:"members"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
