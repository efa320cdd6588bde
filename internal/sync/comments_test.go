package sync_test

import (
	"context"
	"testing"

	"skillsphere/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_PostAppendsServerComment(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Pour-over technique")
	commenter := f.srv.SeedUser("commenter")
	comments := f.commentsFor(t, commenter)
	ctx := context.Background()

	created, err := comments.Post(ctx, postID, "Great grind size tips")
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "created comment must carry the server identifier")
	assert.Equal(t, commenter, created.UserID)

	cached := f.store.Comments(postID)
	require.Len(t, cached, 1)
	assert.Equal(t, created.ID, cached[0].ID)
}

func TestComments_EmptyContentRejected(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Scales practice")
	commenter := f.srv.SeedUser("commenter")
	comments := f.commentsFor(t, commenter)

	_, err := comments.Post(context.Background(), postID, "")
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Empty(t, f.store.Comments(postID))
}

func TestComments_EditRefetchesList(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Trail nutrition")
	commenter := f.srv.SeedUser("commenter")
	commentID := f.srv.SeedComment(postID, commenter, "first draft")

	comments := f.commentsFor(t, commenter)
	ctx := context.Background()
	_, err := comments.Load(ctx, postID)
	require.NoError(t, err)

	updated, err := comments.Edit(ctx, postID, commentID, "second draft")
	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Content)
	assert.True(t, updated.Edited())

	cached := f.store.Comments(postID)
	require.Len(t, cached, 1)
	assert.Equal(t, "second draft", cached[0].Content)
	assert.True(t, cached[0].Edited())
}

func TestComments_EditByNonAuthorDenied(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Perspective drawing")
	commenter := f.srv.SeedUser("commenter")
	commentID := f.srv.SeedComment(postID, commenter, "original")

	intruder := f.srv.SeedUser("intruder")
	comments := f.commentsFor(t, intruder)

	_, err := comments.Edit(context.Background(), postID, commentID, "hijacked")
	require.ErrorIs(t, err, api.ErrPermissionDenied)
}

func TestComments_DeleteByCommentAuthor(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Salsa footwork")
	commenter := f.srv.SeedUser("commenter")
	commentID := f.srv.SeedComment(postID, commenter, "mine to remove")

	comments := f.commentsFor(t, commenter)
	require.NoError(t, comments.Delete(context.Background(), postID, commentID))
	assert.Empty(t, f.store.Comments(postID))
}

func TestComments_DeleteByPostOwner(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Bonsai pruning")
	commenter := f.srv.SeedUser("commenter")
	commentID := f.srv.SeedComment(postID, commenter, "spam")

	comments := f.commentsFor(t, author)
	require.NoError(t, comments.Delete(context.Background(), postID, commentID))
	assert.Empty(t, f.store.Comments(postID))
}

func TestComments_DeleteByThirdPartyDenied(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Origami cranes")
	commenter := f.srv.SeedUser("commenter")
	commentID := f.srv.SeedComment(postID, commenter, "legit comment")
	bystander := f.srv.SeedUser("bystander")

	comments := f.commentsFor(t, bystander)
	err := comments.Delete(context.Background(), postID, commentID)
	require.ErrorIs(t, err, api.ErrPermissionDenied)

	// The comment survives both remotely and in the refreshed cache.
	fresh := f.commentsFor(t, commenter)
	cs, err := fresh.Refresh(context.Background(), postID)
	require.NoError(t, err)
	assert.Len(t, cs, 1)
}

func TestComments_DeleteMissingCommentNotFound(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Macro lenses")
	commenter := f.srv.SeedUser("commenter")

	comments := f.commentsFor(t, commenter)
	err := comments.Delete(context.Background(), postID, 9999)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestComments_LoadKeepsServerOrder(t *testing.T) {
	f := newFixture(t)
	author := f.srv.SeedUser("author")
	postID := f.srv.SeedPost(author, "Chess openings")
	u1 := f.srv.SeedUser("u1")
	u2 := f.srv.SeedUser("u2")
	first := f.srv.SeedComment(postID, u1, "first")
	second := f.srv.SeedComment(postID, u2, "second")

	comments := f.commentsFor(t, u1)
	cs, err := comments.Load(context.Background(), postID)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, first, cs[0].ID)
	assert.Equal(t, second, cs[1].ID)
}
