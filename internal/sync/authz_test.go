package sync_test

import (
	"testing"

	"skillsphere/internal/api"
	"skillsphere/internal/auth"
	"skillsphere/internal/models"
	"skillsphere/internal/sync"

	"github.com/stretchr/testify/assert"
)

func TestCanReact(t *testing.T) {
	post := models.Post{ID: 1, UserID: 7}

	assert.ErrorIs(t, sync.CanReact(auth.Identity{UserID: 7}, post), api.ErrPermissionDenied)
	assert.NoError(t, sync.CanReact(auth.Identity{UserID: 8}, post))
}

func TestCanEditComment(t *testing.T) {
	comment := models.Comment{ID: 3, PostID: 1, UserID: 5}

	assert.NoError(t, sync.CanEditComment(auth.Identity{UserID: 5}, comment))
	assert.ErrorIs(t, sync.CanEditComment(auth.Identity{UserID: 6}, comment), api.ErrPermissionDenied)
}

func TestCanDeleteComment(t *testing.T) {
	post := models.Post{ID: 1, UserID: 7}
	comment := models.Comment{ID: 3, PostID: 1, UserID: 5}

	tests := []struct {
		name    string
		userID  uint
		allowed bool
	}{
		{"comment author", 5, true},
		{"post owner", 7, true},
		{"third party", 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sync.CanDeleteComment(auth.Identity{UserID: tt.userID}, comment, post)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, api.ErrPermissionDenied)
			}
		})
	}
}
