package orm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/membership/internal/domain/member"
)

func TestTeamRepository_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teamA := f.saveTeam(t, ctx, "teamA")
	teamB := f.saveTeam(t, ctx, "teamB")
	require.NotZero(t, teamA.ID)
	assert.False(t, teamA.CreatedDate.IsZero())
	assert.Equal(t, teamA.CreatedDate, teamA.UpdatedDate)

	found, ok, err := f.teams.FindByID(ctx, teamA.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "teamA", found.Name)

	_, ok, err = f.teams.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := f.teams.Find(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := f.teams.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "teamB", all[1].Name)

	count, err := f.teams.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// 脱管的团队不能直接删除
	err = f.teams.Delete(ctx, teamB)
	assert.True(t, errors.Is(err, member.ErrDetachedEntity))

	f.inTx(t, func(ctx context.Context) {
		managed, err := f.teams.Find(ctx, teamB.ID)
		require.NoError(t, err)
		require.NoError(t, f.teams.Delete(ctx, managed))
	})

	count, err = f.teams.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTeamRepository_UpdatedDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team := f.saveTeam(t, ctx, "teamA")
	time.Sleep(10 * time.Millisecond)

	f.inTx(t, func(ctx context.Context) {
		managed, err := f.teams.Find(ctx, team.ID)
		require.NoError(t, err)
		managed.Name = "teamZ"
	})

	reloaded, err := f.teams.Find(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "teamZ", reloaded.Name)
	assert.True(t, reloaded.UpdatedDate.After(reloaded.CreatedDate))
}

func TestTeamRepository_PersistDetached(t *testing.T) {
	f := newFixture(t)
	team := f.saveTeam(t, context.Background(), "teamA")

	_, err := f.teams.Save(context.Background(), team)
	assert.True(t, errors.Is(err, member.ErrDetachedEntity))
}

func TestTeamRepository_DeleteWithMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teamA := f.saveTeam(t, ctx, "teamA")
	m := f.saveMember(t, ctx, member.NewMemberInTeam("member1", 10, teamA))

	// 团队下仍有会员，外键约束拒绝删除，事务回滚
	err := f.tx.Transaction(ctx, func(ctx context.Context) error {
		managed, err := f.teams.Find(ctx, teamA.ID)
		require.NoError(t, err)
		return f.teams.Delete(ctx, managed)
	})
	require.Error(t, err)

	count, err := f.teams.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	f.inTx(t, func(ctx context.Context) {
		found, err := f.members.FindByID(ctx, m.ID)
		require.NoError(t, err)
		team, err := found.LoadTeam(ctx)
		require.NoError(t, err)
		assert.Equal(t, "teamA", team.Name)
	})
}
