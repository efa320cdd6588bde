// Package models contains data structures for the application's domain models.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReactionType is the closed set of reactions a user can leave on a post.
type ReactionType string

// Supported reaction types.
const (
	ReactionLike       ReactionType = "LIKE"
	ReactionLove       ReactionType = "LOVE"
	ReactionInsightful ReactionType = "INSIGHTFUL"
)

// ReactionTypes lists every supported reaction type.
func ReactionTypes() []ReactionType {
	return []ReactionType{ReactionLike, ReactionLove, ReactionInsightful}
}

// Valid reports whether t is one of the supported reaction types.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionInsightful:
		return true
	}
	return false
}

// ParseReactionType normalizes and validates a raw reaction type string.
func ParseReactionType(raw string) (ReactionType, error) {
	t := ReactionType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown reaction type %q", raw)
	}
	return t, nil
}

const localIDPrefix = "local:"

// ReactionID identifies a reaction either by its server-assigned identifier or,
// while a create is still in flight, by a client-generated placeholder. The two
// cases are kept distinct so a placeholder can never be sent back to the server
// in an update or delete call.
type ReactionID struct {
	server uint
	local  string
}

// ConfirmedID wraps a server-assigned reaction identifier.
func ConfirmedID(id uint) ReactionID {
	return ReactionID{server: id}
}

// UnconfirmedID generates a fresh placeholder identifier for an optimistic create.
func UnconfirmedID() ReactionID {
	return ReactionID{local: uuid.NewString()}
}

// Confirmed returns the server identifier and whether this ID is server-issued.
func (id ReactionID) Confirmed() (uint, bool) {
	return id.server, id.local == ""
}

// Zero reports whether the ID carries neither a server nor a placeholder identifier.
func (id ReactionID) Zero() bool {
	return id.server == 0 && id.local == ""
}

func (id ReactionID) String() string {
	if id.local != "" {
		return localIDPrefix + id.local
	}
	return fmt.Sprintf("%d", id.server)
}

// MarshalJSON encodes a confirmed ID as the bare server number and a placeholder
// as a prefixed string, so cached snapshots round-trip without losing the tag.
func (id ReactionID) MarshalJSON() ([]byte, error) {
	if id.local != "" {
		return json.Marshal(localIDPrefix + id.local)
	}
	return json.Marshal(id.server)
}

// UnmarshalJSON decodes either encoding produced by MarshalJSON.
func (id *ReactionID) UnmarshalJSON(data []byte) error {
	var server uint
	if err := json.Unmarshal(data, &server); err == nil {
		*id = ReactionID{server: server}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("reaction id: %w", err)
	}
	if !strings.HasPrefix(s, localIDPrefix) {
		return fmt.Errorf("reaction id: malformed placeholder %q", s)
	}
	*id = ReactionID{local: strings.TrimPrefix(s, localIDPrefix)}
	return nil
}

// Reaction is one user's reaction to one post. At most one reaction exists per
// (post, user) pair; the remote store enforces the uniqueness.
type Reaction struct {
	ID        ReactionID   `json:"reaction_id"`
	PostID    uint         `json:"post_id"`
	UserID    uint         `json:"user_id"`
	Type      ReactionType `json:"reaction_type"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// ReactionDraft is the validated input for applying a reaction.
type ReactionDraft struct {
	PostID uint         `validate:"required"`
	Type   ReactionType `validate:"required,oneof=LIKE LOVE INSIGHTFUL"`
}

// Validate checks the draft against its declared constraints.
func (d ReactionDraft) Validate() error {
	return validate.Struct(d)
}
