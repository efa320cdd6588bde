package sync

import (
	"fmt"

	"skillsphere/internal/api"
	"skillsphere/internal/auth"
	"skillsphere/internal/models"
)

// CanReact rejects reactions by the post's own author.
func CanReact(id auth.Identity, post models.Post) error {
	if post.UserID == id.UserID {
		return fmt.Errorf("%w: cannot react to your own post", api.ErrPermissionDenied)
	}
	return nil
}

// CanEditComment restricts edits to the comment's author.
func CanEditComment(id auth.Identity, comment models.Comment) error {
	if comment.UserID != id.UserID {
		return fmt.Errorf("%w: only the comment author may edit it", api.ErrPermissionDenied)
	}
	return nil
}

// CanDeleteComment allows deletion by the comment's author or the post's owner.
func CanDeleteComment(id auth.Identity, comment models.Comment, post models.Post) error {
	if comment.UserID == id.UserID || post.UserID == id.UserID {
		return nil
	}
	return fmt.Errorf("%w: only the comment author or the post owner may delete it", api.ErrPermissionDenied)
}
