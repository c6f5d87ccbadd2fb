package members

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gymdesk/gymdesk-backend/pkg/db/models"
)

func setupMembersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY,
  gym_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT NOT NULL,
  address TEXT,
  date_of_birth DATETIME,
  emergency_contact TEXT,
  emergency_phone TEXT,
  photo_url TEXT,
  join_date DATETIME NOT NULL,
  membership_type_ref TEXT NOT NULL,
  membership_start DATETIME NOT NULL,
  membership_end DATETIME NOT NULL,
  membership_amount TEXT NOT NULL DEFAULT '0',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_by_user_id TEXT,
  last_edited_by_user_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedMember(t *testing.T, repo *Repository, gymID uuid.UUID, name, typeRef string, createdAt time.Time) *models.Member {
	t.Helper()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m := &models.Member{
		ID:                uuid.New(),
		GymID:             gymID,
		Name:              name,
		Phone:             "+251911000000",
		JoinDate:          start,
		MembershipTypeRef: typeRef,
		MembershipStart:   start,
		MembershipEnd:     start.AddDate(0, 1, 0),
		MembershipAmount:  decimal.NewFromInt(1500),
		IsActive:          true,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestMemberRepositoryScopesByGym(t *testing.T) {
	repo := NewRepository(setupMembersTestDB(t))
	gymA := uuid.New()
	gymB := uuid.New()

	created := seedMember(t, repo, gymA, "Abel Tesfaye", "monthly", time.Now().UTC())
	seedMember(t, repo, gymB, "Sara Abraham", "monthly", time.Now().UTC())

	found, err := repo.FindByID(context.Background(), gymA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Abel Tesfaye", found.Name)

	_, err = repo.FindByID(context.Background(), gymB, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMemberRepositoryListNewestFirst(t *testing.T) {
	repo := NewRepository(setupMembersTestDB(t))
	gymID := uuid.New()

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	seedMember(t, repo, gymID, "Oldest", "monthly", base)
	seedMember(t, repo, gymID, "Middle", "monthly", base.Add(time.Hour))
	seedMember(t, repo, gymID, "Newest", "monthly", base.Add(2*time.Hour))

	rows, err := repo.ListByGym(context.Background(), gymID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Newest", rows[0].Name)
	assert.Equal(t, "Oldest", rows[2].Name)
}

func TestMemberRepositoryCountByTypeRef(t *testing.T) {
	repo := NewRepository(setupMembersTestDB(t))
	gymID := uuid.New()
	typeID := uuid.NewString()

	seedMember(t, repo, gymID, "A", typeID, time.Now().UTC())
	seedMember(t, repo, gymID, "B", typeID, time.Now().UTC())
	seedMember(t, repo, gymID, "C", "monthly", time.Now().UTC())

	count, err := repo.CountByTypeRef(context.Background(), gymID, typeID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	total, err := repo.CountByGym(context.Background(), gymID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestMemberRepositoryDelete(t *testing.T) {
	repo := NewRepository(setupMembersTestDB(t))
	gymID := uuid.New()

	created := seedMember(t, repo, gymID, "Abel Tesfaye", "monthly", time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), gymID, created.ID))

	_, err := repo.FindByID(context.Background(), gymID, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
