package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"skillsphere/internal/models"
)

// commentDTO mirrors the backend's comment payload.
type commentDTO struct {
	CommentID uint       `json:"commentId"`
	PostID    uint       `json:"postId"`
	UserID    uint       `json:"userId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (d commentDTO) toModel() models.Comment {
	return models.Comment{
		ID:        d.CommentID,
		PostID:    d.PostID,
		UserID:    d.UserID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CommentsByPost fetches the full comment list for a post.
func (c *Client) CommentsByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var dtos []commentDTO
	path := fmt.Sprintf("/api/comments/post/%d", postID)
	if err := c.do(ctx, http.MethodGet, "/api/comments/post/:id", path, nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

// CreateComment posts a comment as the authenticated user and returns the
// stored comment with its server-assigned identifier.
func (c *Client) CreateComment(ctx context.Context, postID uint, content string) (models.Comment, error) {
	body := map[string]any{"postId": postID, "content": content}
	var dto commentDTO
	if err := c.do(ctx, http.MethodPost, "/api/comments", "/api/comments", nil, body, &dto); err != nil {
		return models.Comment{}, err
	}
	return dto.toModel(), nil
}

// UpdateComment replaces the content of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, commentID uint, content string) (models.Comment, error) {
	query := url.Values{"updatedContent": {content}}
	path := fmt.Sprintf("/api/comments/%d", commentID)
	var dto commentDTO
	if err := c.do(ctx, http.MethodPut, "/api/comments/:id", path, query, nil, &dto); err != nil {
		return models.Comment{}, err
	}
	return dto.toModel(), nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID uint) error {
	path := fmt.Sprintf("/api/comments/%d", commentID)
	return c.do(ctx, http.MethodDelete, "/api/comments/:id", path, nil, nil, nil)
}
