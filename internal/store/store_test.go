package store

import (
	"testing"

	"skillsphere/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReactionSetReturnsCopy(t *testing.T) {
	s := New()
	s.PutReaction(models.Reaction{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike})

	set := s.ReactionSet(10)
	set[1] = models.Reaction{ID: models.ConfirmedID(99), PostID: 10, UserID: 1, Type: models.ReactionLove}

	r, ok := s.UserReaction(10, 1)
	require.True(t, ok)
	assert.Equal(t, models.ReactionLike, r.Type, "mutating a snapshot must not affect the store")
}

func TestStore_RestoreReactions(t *testing.T) {
	s := New()
	s.PutReaction(models.Reaction{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike})
	snapshot := s.ReactionSet(10)

	s.PutReaction(models.Reaction{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLove})
	s.PutReaction(models.Reaction{ID: models.ConfirmedID(2), PostID: 10, UserID: 2, Type: models.ReactionLove})
	require.Equal(t, 2, s.ReactionCount(10))

	s.RestoreReactions(10, snapshot)
	assert.Equal(t, 1, s.ReactionCount(10))
	r, ok := s.UserReaction(10, 1)
	require.True(t, ok)
	assert.Equal(t, models.ReactionLike, r.Type)
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := New()
	var got []uint
	cancel := s.Subscribe(func(postID uint) { got = append(got, postID) })

	s.PutReaction(models.Reaction{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike})
	s.DeleteReaction(10, 1)
	assert.Equal(t, []uint{10, 10}, got)

	cancel()
	s.PutReaction(models.Reaction{ID: models.ConfirmedID(2), PostID: 11, UserID: 1, Type: models.ReactionLove})
	assert.Equal(t, []uint{10, 10}, got, "cancelled subscriber must not be notified")
}

func TestStore_ReplaceReactions(t *testing.T) {
	s := New()
	s.PutReaction(models.Reaction{ID: models.ConfirmedID(1), PostID: 10, UserID: 1, Type: models.ReactionLike})

	s.ReplaceReactions(10, []models.Reaction{
		{ID: models.ConfirmedID(5), PostID: 10, UserID: 2, Type: models.ReactionLove},
		{ID: models.ConfirmedID(6), PostID: 10, UserID: 3, Type: models.ReactionInsightful},
	})

	assert.Equal(t, 2, s.ReactionCount(10))
	_, ok := s.UserReaction(10, 1)
	assert.False(t, ok)
}

func TestStore_CommentsRoundTrip(t *testing.T) {
	s := New()
	s.AppendComment(models.Comment{ID: 1, PostID: 10, UserID: 1, Content: "first"})
	s.AppendComment(models.Comment{ID: 2, PostID: 10, UserID: 2, Content: "second"})

	cs := s.Comments(10)
	require.Len(t, cs, 2)
	assert.Equal(t, "first", cs[0].Content)

	c, ok := s.Comment(10, 2)
	require.True(t, ok)
	assert.Equal(t, "second", c.Content)

	s.ReplaceComments(10, []models.Comment{{ID: 3, PostID: 10, UserID: 1, Content: "only"}})
	cs = s.Comments(10)
	require.Len(t, cs, 1)
	assert.Equal(t, uint(3), cs[0].ID)
}

func TestStore_Posts(t *testing.T) {
	s := New()
	_, ok := s.Post(1)
	assert.False(t, ok)

	s.PutPosts([]models.Post{{ID: 1, UserID: 7, Title: "a"}, {ID: 2, UserID: 8, Title: "b"}})
	p, ok := s.Post(2)
	require.True(t, ok)
	assert.Equal(t, uint(8), p.UserID)
}
