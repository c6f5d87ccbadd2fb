package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk-backend/internal/lifecycle"
	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
)

type alertRepository interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.MembershipAlert, error)
	ReplaceForGym(ctx context.Context, gymID uuid.UUID, alerts []models.MembershipAlert) error
	Upsert(ctx context.Context, alert models.MembershipAlert) error
	DeleteByMember(ctx context.Context, memberID uuid.UUID) error
}

type memberLister interface {
	ListByGym(ctx context.Context, gymID uuid.UUID) ([]models.Member, error)
}

// Service materializes membership alerts from member rows.
type Service interface {
	List(ctx context.Context, gymID uuid.UUID) ([]models.MembershipAlert, error)
	RecomputeAll(ctx context.Context, gymID uuid.UUID, now time.Time) (int, error)
	RecomputeOne(ctx context.Context, member models.Member, now time.Time) error
	RemoveForMember(ctx context.Context, memberID uuid.UUID) error
}

type service struct {
	repo    alertRepository
	members memberLister
}

// NewService builds an alert service with the provided repositories.
func NewService(repo alertRepository, members memberLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	if members == nil {
		return nil, fmt.Errorf("member lister required")
	}
	return &service{repo: repo, members: members}, nil
}

func (s *service) List(ctx context.Context, gymID uuid.UUID) ([]models.MembershipAlert, error) {
	alerts, err := s.repo.ListByGym(ctx, gymID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}
	return alerts, nil
}

// RecomputeAll rebuilds the gym's full alert set from current member rows and
// returns how many alerts were materialized. Members outside the alert window
// fall out of the set; stale rows for deleted members disappear with them.
func (s *service) RecomputeAll(ctx context.Context, gymID uuid.UUID, now time.Time) (int, error) {
	members, err := s.members.ListByGym(ctx, gymID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}

	fresh := make([]models.MembershipAlert, 0, len(members))
	for _, m := range members {
		if alert, ok := buildAlert(m, now); ok {
			fresh = append(fresh, alert)
		}
	}

	if err := s.repo.ReplaceForGym(ctx, gymID, fresh); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace alerts")
	}
	return len(fresh), nil
}

// RecomputeOne refreshes a single member's alert row: upsert when the member
// qualifies, delete otherwise.
func (s *service) RecomputeOne(ctx context.Context, member models.Member, now time.Time) error {
	alert, ok := buildAlert(member, now)
	if !ok {
		if err := s.repo.DeleteByMember(ctx, member.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete alert")
		}
		return nil
	}
	if err := s.repo.Upsert(ctx, alert); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert alert")
	}
	return nil
}

func (s *service) RemoveForMember(ctx context.Context, memberID uuid.UUID) error {
	if err := s.repo.DeleteByMember(ctx, memberID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete alert")
	}
	return nil
}

func buildAlert(m models.Member, now time.Time) (models.MembershipAlert, bool) {
	alertType, days, ok := lifecycle.AlertFor(m, now)
	if !ok {
		return models.MembershipAlert{}, false
	}
	return models.MembershipAlert{
		MemberID:      m.ID,
		GymID:         m.GymID,
		MemberName:    m.Name,
		AlertType:     alertType,
		DaysRemaining: days,
		MembershipEnd: lifecycle.Midnight(m.MembershipEnd),
	}, true
}
