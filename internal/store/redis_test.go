package store

import (
	"context"
	"testing"
	"time"

	"skillsphere/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshots(t *testing.T) *Snapshots {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotsFromClient(client, time.Minute)
}

func TestSnapshots_ReactionsRoundTrip(t *testing.T) {
	s := newTestSnapshots(t)
	ctx := context.Background()

	rs := []models.Reaction{
		{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike},
		{ID: models.ConfirmedID(2), PostID: 10, UserID: 2, Type: models.ReactionLove},
	}
	require.NoError(t, s.SaveReactions(ctx, 10, rs))

	got, found, err := s.LoadReactions(ctx, 10)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rs, got)
}

func TestSnapshots_PlaceholdersNeverPersisted(t *testing.T) {
	s := newTestSnapshots(t)
	ctx := context.Background()

	rs := []models.Reaction{
		{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike},
		{ID: models.UnconfirmedID(), PostID: 10, UserID: 2, Type: models.ReactionLove},
	}
	require.NoError(t, s.SaveReactions(ctx, 10, rs))

	got, found, err := s.LoadReactions(ctx, 10)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	_, confirmed := got[0].ID.Confirmed()
	assert.True(t, confirmed)
}

func TestSnapshots_MissReturnsNotFound(t *testing.T) {
	s := newTestSnapshots(t)

	_, found, err := s.LoadReactions(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshots_CommentsRoundTripAndInvalidate(t *testing.T) {
	s := newTestSnapshots(t)
	ctx := context.Background()

	created := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	cs := []models.Comment{{ID: 1, PostID: 10, UserID: 1, Content: "hello", CreatedAt: created}}
	require.NoError(t, s.SaveComments(ctx, 10, cs))

	got, found, err := s.LoadComments(ctx, 10)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cs, got)

	require.NoError(t, s.InvalidateComments(ctx, 10))
	_, found, err = s.LoadComments(ctx, 10)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshots_DisabledIsNoop(t *testing.T) {
	s := NewSnapshots("", time.Minute)
	ctx := context.Background()

	assert.False(t, s.Enabled())
	require.NoError(t, s.SaveReactions(ctx, 10, []models.Reaction{{ID: models.ConfirmedID(1), PostID: 10, UserID: 1}}))
	_, found, err := s.LoadReactions(ctx, 10)
	require.NoError(t, err)
	assert.False(t, found)
}
