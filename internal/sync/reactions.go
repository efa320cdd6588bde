// Package sync keeps the client-side cache consistent with the remote store.
// Reactions use an optimistic protocol: the cache is mutated before the remote
// call is issued, then reconciled on success or rolled back on failure.
// Comments use the simpler refetch-after-mutate model.
package sync

import (
	"context"
	"fmt"
	"sync"

	"skillsphere/internal/api"
	"skillsphere/internal/auth"
	"skillsphere/internal/models"
	"skillsphere/internal/observability"
	"skillsphere/internal/store"
)

// ReactionAPI is the remote reaction store contract consumed by the synchronizer.
type ReactionAPI interface {
	ReactionsByPost(ctx context.Context, postID uint) ([]models.Reaction, error)
	CreateReaction(ctx context.Context, postID uint, t models.ReactionType) (models.Reaction, error)
	UpdateReaction(ctx context.Context, reactionID uint, t models.ReactionType) (models.Reaction, error)
	DeleteReaction(ctx context.Context, reactionID uint) error
}

// PostAPI resolves posts for authorship checks.
type PostAPI interface {
	PostByID(ctx context.Context, postID uint) (models.Post, error)
}

// Transition is the remote operation chosen for one apply.
type Transition string

// Apply transitions.
const (
	TransitionCreate Transition = "create"
	TransitionUpdate Transition = "update"
	TransitionDelete Transition = "delete"
)

// pendingEdit is the rollback point captured immediately before an optimistic
// mutation. It lives only until the remote call settles.
type pendingEdit struct {
	postID   uint
	snapshot map[uint]models.Reaction
}

// Pending is the settle handle for one in-flight apply.
type Pending struct {
	// Transition is the remote operation this apply resolved to.
	Transition Transition

	done chan struct{}
	err  error
}

// Wait blocks until the apply settles or ctx is done, and returns the settle
// error. The remote mutation itself is never cancelled by ctx.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done exposes the settle channel for select-based callers.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the settle error. Only valid after Done is closed.
func (p *Pending) Err() error { return p.err }

// Reactions synchronizes one user's reactions against the remote store.
type Reactions struct {
	remote ReactionAPI
	posts  PostAPI
	store  *store.Store
	snaps  *store.Snapshots
	tokens api.TokenSource
	log    *observability.SyncLogger

	mu     sync.Mutex
	closed bool
}

// NewReactions wires a reaction synchronizer. snaps may be a disabled instance.
func NewReactions(remote ReactionAPI, posts PostAPI, st *store.Store, snaps *store.Snapshots, tokens api.TokenSource) *Reactions {
	return &Reactions{
		remote: remote,
		posts:  posts,
		store:  st,
		snaps:  snaps,
		tokens: tokens,
		log:    observability.NewSyncLogger("reactions"),
	}
}

// Close detaches the synchronizer from the store: applies that settle after
// Close neither reconcile nor roll back the cache. In-flight remote mutations
// still complete server-side.
func (r *Reactions) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Reactions) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Load fills the cache for a post, preferring a Redis snapshot over the remote
// store, and returns the reaction list.
func (r *Reactions) Load(ctx context.Context, postID uint) ([]models.Reaction, error) {
	if rs, found, err := r.snaps.LoadReactions(ctx, postID); err == nil && found {
		r.store.ReplaceReactions(postID, rs)
		return rs, nil
	}
	rs, err := r.remote.ReactionsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	r.store.ReplaceReactions(postID, rs)
	_ = r.snaps.SaveReactions(ctx, postID, rs)
	return rs, nil
}

// Apply records the authenticated user picking reaction type t on a post.
// The cache is updated synchronously; the remote call resolves through the
// returned Pending. A guard failure returns an error and leaves the cache
// byte-for-byte untouched.
func (r *Reactions) Apply(ctx context.Context, postID uint, t models.ReactionType) (*Pending, error) {
	if observability.ExtractCorrelationID(ctx) == "" {
		ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
	}

	identity, err := auth.Identify(r.tokens)
	if err != nil {
		return nil, err
	}

	if err := (models.ReactionDraft{PostID: postID, Type: t}).Validate(); err != nil {
		r.log.LogGuard(ctx, postID, identity.UserID, err)
		return nil, fmt.Errorf("%w: %v", api.ErrInvalidArgument, err)
	}

	post, err := r.postFor(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := CanReact(identity, post); err != nil {
		r.log.LogGuard(ctx, postID, identity.UserID, err)
		return nil, err
	}

	prior, hasPrior := r.store.UserReaction(postID, identity.UserID)
	edit := pendingEdit{postID: postID, snapshot: r.store.ReactionSet(postID)}

	var transition Transition
	var optimistic models.Reaction
	switch {
	case !hasPrior:
		transition = TransitionCreate
		optimistic = models.Reaction{
			ID:     models.UnconfirmedID(),
			PostID: postID,
			UserID: identity.UserID,
			Type:   t,
		}
		r.store.PutReaction(optimistic)
	case prior.Type == t:
		transition = TransitionDelete
		r.store.DeleteReaction(postID, identity.UserID)
	default:
		transition = TransitionUpdate
		optimistic = prior
		optimistic.Type = t
		r.store.PutReaction(optimistic)
	}
	r.log.LogApply(ctx, string(transition), postID, identity.UserID)

	pending := &Pending{Transition: transition, done: make(chan struct{})}

	// The remote mutation must complete even if the caller's context is
	// cancelled after the optimistic update; only the settle handle observes
	// cancellation.
	go r.settle(context.WithoutCancel(ctx), pending, edit, prior, transition, t)

	return pending, nil
}

func (r *Reactions) settle(ctx context.Context, pending *Pending, edit pendingEdit, prior models.Reaction, transition Transition, t models.ReactionType) {
	defer close(pending.done)

	ctx, span := observability.Tracer.Start(ctx, "sync.reactions.settle")
	defer span.End()

	var err error
	switch transition {
	case TransitionCreate:
		var created models.Reaction
		created, err = r.remote.CreateReaction(ctx, edit.postID, t)
		if err == nil && !r.isClosed() {
			// Swap the placeholder for the server-issued reaction before the
			// refetch so the real identifier is never absent from the cache.
			r.store.PutReaction(created)
		}
	case TransitionUpdate:
		var id uint
		var ok bool
		if id, ok = prior.ID.Confirmed(); !ok {
			err = fmt.Errorf("%w: previous reaction not yet confirmed", api.ErrConflict)
		} else {
			_, err = r.remote.UpdateReaction(ctx, id, t)
		}
	case TransitionDelete:
		var id uint
		var ok bool
		if id, ok = prior.ID.Confirmed(); !ok {
			err = fmt.Errorf("%w: previous reaction not yet confirmed", api.ErrConflict)
		} else {
			err = r.remote.DeleteReaction(ctx, id)
		}
	}

	if err != nil {
		pending.err = err
		observability.ReactionApplies.WithLabelValues(string(transition), "failure").Inc()
		if !r.isClosed() {
			r.store.RestoreReactions(edit.postID, edit.snapshot)
			observability.ReactionRollbacks.WithLabelValues(string(transition)).Inc()
		}
		r.log.LogSettle(ctx, string(transition), edit.postID, err)
		return
	}

	observability.ReactionApplies.WithLabelValues(string(transition), "success").Inc()
	if !r.isClosed() {
		// Converge with concurrent changes from other clients. Best effort: a
		// failed refetch leaves the already-consistent optimistic state.
		if rs, ferr := r.remote.ReactionsByPost(ctx, edit.postID); ferr == nil {
			r.store.ReplaceReactions(edit.postID, rs)
			_ = r.snaps.SaveReactions(ctx, edit.postID, rs)
		}
	}
	r.log.LogSettle(ctx, string(transition), edit.postID, nil)
}

func (r *Reactions) postFor(ctx context.Context, postID uint) (models.Post, error) {
	if post, ok := r.store.Post(postID); ok {
		return post, nil
	}
	post, err := r.posts.PostByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	r.store.PutPost(post)
	return post, nil
}
