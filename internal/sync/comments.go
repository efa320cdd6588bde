package sync

import (
	"context"
	"errors"
	"fmt"

	"skillsphere/internal/api"
	"skillsphere/internal/auth"
	"skillsphere/internal/models"
	"skillsphere/internal/observability"
	"skillsphere/internal/store"
)

// CommentAPI is the remote comment store contract consumed by the synchronizer.
type CommentAPI interface {
	CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID uint, content string) (models.Comment, error)
	UpdateComment(ctx context.Context, commentID uint, content string) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID uint) error
}

// Comments synchronizes a post's comment list. Unlike reactions there is no
// optimistic phase: every mutation is confirmed remotely first, then the full
// list is refetched so ordering and authorship stay server-accurate.
type Comments struct {
	remote CommentAPI
	posts  PostAPI
	store  *store.Store
	snaps  *store.Snapshots
	tokens api.TokenSource
	log    *observability.SyncLogger
}

// NewComments wires a comment synchronizer. snaps may be a disabled instance.
func NewComments(remote CommentAPI, posts PostAPI, st *store.Store, snaps *store.Snapshots, tokens api.TokenSource) *Comments {
	return &Comments{
		remote: remote,
		posts:  posts,
		store:  st,
		snaps:  snaps,
		tokens: tokens,
		log:    observability.NewSyncLogger("comments"),
	}
}

// Load fills the cache for a post, preferring a Redis snapshot, and returns
// the comment list.
func (c *Comments) Load(ctx context.Context, postID uint) ([]models.Comment, error) {
	if cs, found, err := c.snaps.LoadComments(ctx, postID); err == nil && found {
		c.store.ReplaceComments(postID, cs)
		return cs, nil
	}
	return c.Refresh(ctx, postID)
}

// Refresh refetches the comment list from the remote store and replaces the
// cached copy.
func (c *Comments) Refresh(ctx context.Context, postID uint) ([]models.Comment, error) {
	cs, err := c.remote.CommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	c.store.ReplaceComments(postID, cs)
	_ = c.snaps.SaveComments(ctx, postID, cs)
	return cs, nil
}

// Post creates a comment as the authenticated user and appends the
// server-returned comment to the cache. The created comment carries its real
// identifier immediately, so no placeholder is needed.
func (c *Comments) Post(ctx context.Context, postID uint, content string) (models.Comment, error) {
	if _, err := auth.Identify(c.tokens); err != nil {
		return models.Comment{}, err
	}
	if err := (models.CommentDraft{PostID: postID, Content: content}).Validate(); err != nil {
		return models.Comment{}, fmt.Errorf("%w: %v", api.ErrInvalidArgument, err)
	}

	created, err := c.remote.CreateComment(ctx, postID, content)
	if err != nil {
		return models.Comment{}, err
	}
	c.store.AppendComment(created)
	_ = c.snaps.SaveComments(ctx, postID, c.store.Comments(postID))
	return created, nil
}

// Edit replaces a comment's content. Only the comment author may edit; the
// full list is refetched after the remote update succeeds.
func (c *Comments) Edit(ctx context.Context, postID, commentID uint, content string) (models.Comment, error) {
	identity, err := auth.Identify(c.tokens)
	if err != nil {
		return models.Comment{}, err
	}
	if err := (models.CommentDraft{PostID: postID, Content: content}).Validate(); err != nil {
		return models.Comment{}, fmt.Errorf("%w: %v", api.ErrInvalidArgument, err)
	}

	comment, err := c.commentFor(ctx, postID, commentID)
	if err != nil {
		return models.Comment{}, err
	}
	if err := CanEditComment(identity, comment); err != nil {
		return models.Comment{}, err
	}

	updated, err := c.remote.UpdateComment(ctx, commentID, content)
	if err != nil {
		return models.Comment{}, err
	}
	if _, err := c.Refresh(ctx, postID); err != nil {
		c.log.LogSettle(ctx, "edit", postID, err)
	}
	return updated, nil
}

// Delete removes a comment. Allowed for the comment author and the post owner;
// the full list is refetched after the remote delete succeeds.
func (c *Comments) Delete(ctx context.Context, postID, commentID uint) error {
	identity, err := auth.Identify(c.tokens)
	if err != nil {
		return err
	}

	comment, err := c.commentFor(ctx, postID, commentID)
	if err != nil {
		return err
	}
	post, err := c.postFor(ctx, postID)
	if err != nil {
		return err
	}
	if err := CanDeleteComment(identity, comment, post); err != nil {
		return err
	}

	if err := c.remote.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	if _, err := c.Refresh(ctx, postID); err != nil {
		c.log.LogSettle(ctx, "delete", postID, err)
	}
	return nil
}

// commentFor resolves a comment from the cache, refetching once on a miss.
func (c *Comments) commentFor(ctx context.Context, postID, commentID uint) (models.Comment, error) {
	if comment, ok := c.store.Comment(postID, commentID); ok {
		return comment, nil
	}
	if _, err := c.Refresh(ctx, postID); err != nil && !errors.Is(err, api.ErrNotFound) {
		return models.Comment{}, err
	}
	if comment, ok := c.store.Comment(postID, commentID); ok {
		return comment, nil
	}
	return models.Comment{}, fmt.Errorf("comment %d: %w", commentID, api.ErrNotFound)
}

func (c *Comments) postFor(ctx context.Context, postID uint) (models.Post, error) {
	if post, ok := c.store.Post(postID); ok {
		return post, nil
	}
	post, err := c.posts.PostByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	c.store.PutPost(post)
	return post, nil
}
