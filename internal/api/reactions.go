package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"skillsphere/internal/models"
)

// reactionDTO mirrors the backend's reaction payload.
type reactionDTO struct {
	ReactionID   uint      `json:"reactionId"`
	PostID       uint      `json:"postId"`
	UserID       uint      `json:"userId"`
	ReactionType string    `json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

func (d reactionDTO) toModel() models.Reaction {
	return models.Reaction{
		ID:        models.ConfirmedID(d.ReactionID),
		PostID:    d.PostID,
		UserID:    d.UserID,
		Type:      models.ReactionType(d.ReactionType),
		CreatedAt: d.CreatedAt,
	}
}

// ReactionsByPost fetches every reaction currently on a post.
func (c *Client) ReactionsByPost(ctx context.Context, postID uint) ([]models.Reaction, error) {
	var dtos []reactionDTO
	path := fmt.Sprintf("/api/reactions/post/%d", postID)
	if err := c.do(ctx, http.MethodGet, "/api/reactions/post/:id", path, nil, nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]models.Reaction, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

// CreateReaction creates a reaction for the authenticated user. The server
// assigns the identity and returns the stored reaction.
func (c *Client) CreateReaction(ctx context.Context, postID uint, t models.ReactionType) (models.Reaction, error) {
	body := map[string]any{"postId": postID, "reactionType": string(t)}
	var dto reactionDTO
	if err := c.do(ctx, http.MethodPost, "/api/reactions", "/api/reactions", nil, body, &dto); err != nil {
		return models.Reaction{}, err
	}
	return dto.toModel(), nil
}

// UpdateReaction changes the type of an existing reaction.
func (c *Client) UpdateReaction(ctx context.Context, reactionID uint, t models.ReactionType) (models.Reaction, error) {
	query := url.Values{"newReactionType": {string(t)}}
	path := fmt.Sprintf("/api/reactions/%d", reactionID)
	var dto reactionDTO
	if err := c.do(ctx, http.MethodPut, "/api/reactions/:id", path, query, nil, &dto); err != nil {
		return models.Reaction{}, err
	}
	return dto.toModel(), nil
}

// DeleteReaction removes an existing reaction.
func (c *Client) DeleteReaction(ctx context.Context, reactionID uint) error {
	path := fmt.Sprintf("/api/reactions/%d", reactionID)
	return c.do(ctx, http.MethodDelete, "/api/reactions/:id", path, nil, nil, nil)
}
