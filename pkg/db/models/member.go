package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Member is a gym customer with a current membership interval.
//
// MembershipTypeRef is stored raw: either the UUID of a MembershipType row or
// one of the legacy plan literals (monthly/quarterly/yearly). The lifecycle
// package interprets it.
type Member struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GymID              uuid.UUID       `gorm:"column:gym_id;type:uuid;not null;index"`
	Name               string          `gorm:"column:name;not null"`
	Email              *string         `gorm:"column:email"`
	Phone              string          `gorm:"column:phone;not null"`
	Address            *string         `gorm:"column:address"`
	DateOfBirth        *time.Time      `gorm:"column:date_of_birth;type:date"`
	EmergencyContact   *string         `gorm:"column:emergency_contact"`
	EmergencyPhone     *string         `gorm:"column:emergency_phone"`
	PhotoURL           *string         `gorm:"column:photo_url"`
	JoinDate           time.Time       `gorm:"column:join_date;type:date;not null"`
	MembershipTypeRef  string          `gorm:"column:membership_type_ref;not null"`
	MembershipStart    time.Time       `gorm:"column:membership_start;type:date;not null"`
	MembershipEnd      time.Time       `gorm:"column:membership_end;type:date;not null"`
	MembershipAmount   decimal.Decimal `gorm:"column:membership_amount;type:numeric(12,2);not null;default:0"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	CreatedByUserID    *uuid.UUID      `gorm:"column:created_by_user_id;type:uuid"`
	LastEditedByUserID *uuid.UUID      `gorm:"column:last_edited_by_user_id;type:uuid"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
