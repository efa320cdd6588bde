// Package store owns the client-side cache of reactions, comments and posts.
// It is the single mutable copy shared by every view of the application: views
// hold a reference to one Store and subscribe for change notifications instead
// of keeping divergent copies.
package store

import (
	"sync"

	"skillsphere/internal/models"
)

// Store is an in-memory read cache of remote state. The synchronizers are the
// only writers; readers receive snapshot copies.
type Store struct {
	mu        sync.RWMutex
	reactions map[uint]map[uint]models.Reaction // postID -> userID -> reaction
	comments  map[uint][]models.Comment         // postID -> comments
	posts     map[uint]models.Post
	subs      map[uint64]func(postID uint)
	nextSub   uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		reactions: make(map[uint]map[uint]models.Reaction),
		comments:  make(map[uint][]models.Comment),
		posts:     make(map[uint]models.Post),
		subs:      make(map[uint64]func(uint)),
	}
}

// Subscribe registers a callback invoked after every mutation, with the postID
// that changed. The returned function cancels the subscription. Callbacks run
// on the mutating goroutine and must not call back into the Store's write path.
func (s *Store) Subscribe(fn func(postID uint)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(postID uint) {
	s.mu.RLock()
	fns := make([]func(uint), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(postID)
	}
}

// ReactionSet returns a copy of the reaction set for a post, keyed by userID.
func (s *Store) ReactionSet(postID uint) map[uint]models.Reaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint]models.Reaction, len(s.reactions[postID]))
	for userID, r := range s.reactions[postID] {
		out[userID] = r
	}
	return out
}

// UserReaction returns the given user's reaction on a post, if any.
func (s *Store) UserReaction(postID, userID uint) (models.Reaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reactions[postID][userID]
	return r, ok
}

// ReactionCount returns the number of reactions currently cached for a post.
func (s *Store) ReactionCount(postID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reactions[postID])
}

// PutReaction inserts or replaces the reaction for (r.PostID, r.UserID).
func (s *Store) PutReaction(r models.Reaction) {
	s.mu.Lock()
	set, ok := s.reactions[r.PostID]
	if !ok {
		set = make(map[uint]models.Reaction)
		s.reactions[r.PostID] = set
	}
	set[r.UserID] = r
	s.mu.Unlock()
	s.notify(r.PostID)
}

// DeleteReaction removes the reaction for (postID, userID), if present.
func (s *Store) DeleteReaction(postID, userID uint) {
	s.mu.Lock()
	if set, ok := s.reactions[postID]; ok {
		delete(set, userID)
	}
	s.mu.Unlock()
	s.notify(postID)
}

// ReplaceReactions swaps in a freshly fetched reaction list for a post.
func (s *Store) ReplaceReactions(postID uint, rs []models.Reaction) {
	set := make(map[uint]models.Reaction, len(rs))
	for _, r := range rs {
		set[r.UserID] = r
	}
	s.mu.Lock()
	s.reactions[postID] = set
	s.mu.Unlock()
	s.notify(postID)
}

// RestoreReactions reinstates a snapshot previously taken with ReactionSet.
func (s *Store) RestoreReactions(postID uint, snapshot map[uint]models.Reaction) {
	set := make(map[uint]models.Reaction, len(snapshot))
	for userID, r := range snapshot {
		set[userID] = r
	}
	s.mu.Lock()
	s.reactions[postID] = set
	s.mu.Unlock()
	s.notify(postID)
}

// Comments returns a copy of the cached comment list for a post.
func (s *Store) Comments(postID uint) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Comment, len(s.comments[postID]))
	copy(out, s.comments[postID])
	return out
}

// Comment returns one cached comment by ID.
func (s *Store) Comment(postID, commentID uint) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments[postID] {
		if c.ID == commentID {
			return c, true
		}
	}
	return models.Comment{}, false
}

// ReplaceComments swaps in a freshly fetched comment list for a post.
func (s *Store) ReplaceComments(postID uint, cs []models.Comment) {
	list := make([]models.Comment, len(cs))
	copy(list, cs)
	s.mu.Lock()
	s.comments[postID] = list
	s.mu.Unlock()
	s.notify(postID)
}

// AppendComment appends a server-confirmed comment to a post's list.
func (s *Store) AppendComment(c models.Comment) {
	s.mu.Lock()
	s.comments[c.PostID] = append(s.comments[c.PostID], c)
	s.mu.Unlock()
	s.notify(c.PostID)
}

// Post returns a cached post.
func (s *Store) Post(postID uint) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[postID]
	return p, ok
}

// PutPost caches a post.
func (s *Store) PutPost(p models.Post) {
	s.mu.Lock()
	s.posts[p.ID] = p
	s.mu.Unlock()
	s.notify(p.ID)
}

// PutPosts caches a batch of posts without notifying per post.
func (s *Store) PutPosts(ps []models.Post) {
	s.mu.Lock()
	for _, p := range ps {
		s.posts[p.ID] = p
	}
	s.mu.Unlock()
	for _, p := range ps {
		s.notify(p.ID)
	}
}
