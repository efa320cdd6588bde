package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReactionType(t *testing.T) {
	tests := []struct {
		raw     string
		want    ReactionType
		wantErr bool
	}{
		{"LIKE", ReactionLike, false},
		{"love", ReactionLove, false},
		{"  Insightful ", ReactionInsightful, false},
		{"MEH", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseReactionType(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReactionID_Tagging(t *testing.T) {
	confirmed := ConfirmedID(17)
	id, ok := confirmed.Confirmed()
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	placeholder := UnconfirmedID()
	_, ok = placeholder.Confirmed()
	assert.False(t, ok)
	assert.False(t, placeholder.Zero())

	other := UnconfirmedID()
	assert.NotEqual(t, placeholder.String(), other.String(), "placeholders must be unique")
}

func TestReactionID_JSONRoundTrip(t *testing.T) {
	for _, id := range []ReactionID{ConfirmedID(5), UnconfirmedID()} {
		data, err := json.Marshal(id)
		require.NoError(t, err)

		var back ReactionID
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, id, back)
	}
}

func TestReactionDraft_Validate(t *testing.T) {
	assert.NoError(t, ReactionDraft{PostID: 1, Type: ReactionLike}.Validate())
	assert.Error(t, ReactionDraft{PostID: 1, Type: "MEH"}.Validate())
	assert.Error(t, ReactionDraft{Type: ReactionLike}.Validate())
}

func TestCommentDraft_Validate(t *testing.T) {
	assert.NoError(t, CommentDraft{PostID: 1, Content: "hello"}.Validate())
	assert.Error(t, CommentDraft{PostID: 1, Content: ""}.Validate())
	assert.Error(t, CommentDraft{Content: "hello"}.Validate())
}
