package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/internal/memberships"
	pkgAuth "github.com/gymdesk/gymdesk-backend/pkg/auth"
	"github.com/gymdesk/gymdesk-backend/pkg/auth/session"
	"github.com/gymdesk/gymdesk-backend/pkg/config"
	"github.com/gymdesk/gymdesk-backend/pkg/enums"
	pkgerrors "github.com/gymdesk/gymdesk-backend/pkg/errors"
)

// SwitchGymInput captures the data required to switch the active gym.
type SwitchGymInput struct {
	UserID        uuid.UUID
	GymID         uuid.UUID
	Language      enums.Language
	AccessTokenID string
}

// SwitchGymResult returns the tokens issued after switching gyms.
type SwitchGymResult struct {
	AccessToken  string
	RefreshToken string
	Gym          GymSummary
}

type switchGymService struct {
	memberships switchMembershipsRepository
	session     switchSessionRotator
	jwtCfg      config.JWTConfig
	now         func() time.Time
}

type switchMembershipsRepository interface {
	GetMembershipWithGym(ctx context.Context, userID, gymID uuid.UUID) (*memberships.MembershipWithGym, error)
}

type switchSessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	RefreshToken(ctx context.Context, accessID string) (string, error)
}

// SwitchGymServiceParams bundles dependencies for the switch flow.
type SwitchGymServiceParams struct {
	MembershipsRepo switchMembershipsRepository
	SessionManager  switchSessionRotator
	JWTConfig       config.JWTConfig
}

// SwitchGymService is the interface exposed to the controller.
type SwitchGymService interface {
	Switch(ctx context.Context, input SwitchGymInput) (*SwitchGymResult, error)
}

// NewSwitchGymService constructs the service.
func NewSwitchGymService(params SwitchGymServiceParams) (SwitchGymService, error) {
	if params.MembershipsRepo == nil {
		return nil, errors.New("memberships repository required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager required")
	}
	return &switchGymService{
		memberships: params.MembershipsRepo,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		now:         time.Now,
	}, nil
}

func (s *switchGymService) Switch(ctx context.Context, input SwitchGymInput) (*SwitchGymResult, error) {
	membership, err := s.memberships.GetMembershipWithGym(ctx, input.UserID, input.GymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "gym membership required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup membership")
	}
	if membership.Status != enums.StaffStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "gym membership inactive")
	}

	refreshToken, err := s.session.RefreshToken(ctx, input.AccessTokenID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load refresh token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, input.AccessTokenID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	payload := pkgAuth.AccessTokenPayload{
		UserID:      input.UserID,
		ActiveGymID: &input.GymID,
		Role:        membership.Role,
		Language:    input.Language,
		JTI:         newAccessID,
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &SwitchGymResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Gym: GymSummary{
			ID:   membership.GymID,
			Name: membership.GymName,
		},
	}, nil
}
