package models

import "time"

// Post is the client-side view of a post as returned by the remote store. Only
// the fields the synchronizers need are modeled; rendering concerns live with
// the caller.
type Post struct {
	ID       uint   `json:"post_id"`
	UserID   uint   `json:"user_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	// ReactionsCount and CommentsCount are derived server-side; not authoritative
	// between refetches.
	ReactionsCount int       `json:"reactions_count"`
	CommentsCount  int       `json:"comments_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// User is the authenticated or referenced user as the client sees it.
type User struct {
	ID       uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}
