package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skillsphere/internal/models"
)

// postDTO mirrors the backend's post payload.
type postDTO struct {
	PostID    uint      `json:"postId"`
	UserID    uint      `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (d postDTO) toModel() models.Post {
	return models.Post{
		ID:        d.PostID,
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
	}
}

// Posts fetches the post feed.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var dtos []postDTO
	if err := c.do(ctx, http.MethodGet, "/api/posts", "/api/posts", nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

// PostByID fetches one post, primarily for authorship checks.
func (c *Client) PostByID(ctx context.Context, postID uint) (models.Post, error) {
	var dto postDTO
	path := fmt.Sprintf("/api/posts/%d", postID)
	if err := c.do(ctx, http.MethodGet, "/api/posts/:id", path, nil, nil, &dto); err != nil {
		return models.Post{}, err
	}
	return dto.toModel(), nil
}
