package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/pkg/enums"
)

type membershipWithGymRow struct {
	ID              uuid.UUID
	GymID           uuid.UUID
	UserID          uuid.UUID
	Role            enums.StaffRole
	Status          enums.StaffStatus
	InvitedByUserID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	GymName         string
}

type gymUserRow struct {
	ID          uuid.UUID
	GymID       uuid.UUID
	UserID      uuid.UUID
	Role        enums.StaffRole
	Status      enums.StaffStatus
	CreatedAt   time.Time
	Username    string
	Email       string
	LastLoginAt *time.Time
}

func membershipWithGymFromRow(row membershipWithGymRow) MembershipWithGym {
	return MembershipWithGym{
		MembershipID:    row.ID,
		GymID:           row.GymID,
		UserID:          row.UserID,
		GymName:         row.GymName,
		Role:            row.Role,
		Status:          row.Status,
		InvitedByUserID: copyUUIDPointer(row.InvitedByUserID),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithGymRow) []MembershipWithGym {
	out := make([]MembershipWithGym, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithGymFromRow(row))
	}
	return out
}

func gymUsersFromRows(rows []gymUserRow) []GymUserDTO {
	out := make([]GymUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, GymUserDTO{
			MembershipID: row.ID,
			GymID:        row.GymID,
			UserID:       row.UserID,
			Username:     row.Username,
			Email:        row.Email,
			Role:         row.Role,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			LastLoginAt:  row.LastLoginAt,
		})
	}
	return out
}
