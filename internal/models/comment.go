package models

import "time"

// Comment is a user comment on a post. UpdatedAt is nil until the comment is
// edited for the first time.
type Comment struct {
	ID        uint       `json:"comment_id"`
	PostID    uint       `json:"post_id"`
	UserID    uint       `json:"user_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Edited reports whether the comment has been modified since creation.
func (c Comment) Edited() bool {
	return c.UpdatedAt != nil && !c.UpdatedAt.Equal(c.CreatedAt)
}

// CommentDraft is the validated input for posting or editing a comment.
type CommentDraft struct {
	PostID  uint   `validate:"required"`
	Content string `validate:"required,max=2000"`
}

// Validate checks the draft against its declared constraints.
func (d CommentDraft) Validate() error {
	return validate.Struct(d)
}
