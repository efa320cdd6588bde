package apitest

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// SeedUser inserts a user and returns its ID.
func (s *Server) SeedUser(username string) uint {
	u := user{Username: username, Email: gofakeit.Email()}
	if err := s.db.Create(&u).Error; err != nil {
		panic(fmt.Sprintf("apitest: seed user: %v", err))
	}
	return u.ID
}

// SeedPost inserts a post authored by userID and returns its ID.
func (s *Server) SeedPost(userID uint, title string) uint {
	p := post{
		UserID:   userID,
		Title:    title,
		Content:  gofakeit.Paragraph(1, 3, 8, " "),
		Category: gofakeit.RandomString([]string{"Technology", "Science", "Art", "Music", "Sports", "Education", "Other"}),
	}
	if err := s.db.Create(&p).Error; err != nil {
		panic(fmt.Sprintf("apitest: seed post: %v", err))
	}
	return p.ID
}

// SeedComment inserts a comment and returns its ID.
func (s *Server) SeedComment(postID, userID uint, content string) uint {
	cm := comment{PostID: postID, UserID: userID, Content: content}
	if err := s.db.Create(&cm).Error; err != nil {
		panic(fmt.Sprintf("apitest: seed comment: %v", err))
	}
	return cm.ID
}

// SeedReaction inserts a reaction directly, bypassing the API, and returns its ID.
func (s *Server) SeedReaction(postID, userID uint, reactionType string) uint {
	r := reaction{PostID: postID, UserID: userID, Type: reactionType}
	if err := s.db.Create(&r).Error; err != nil {
		panic(fmt.Sprintf("apitest: seed reaction: %v", err))
	}
	return r.ID
}

// Seed populates the fixture with n random users each owning one post.
// Returns the user IDs in insertion order.
func (s *Server) Seed(n int) []uint {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		id := s.SeedUser(gofakeit.Username())
		s.SeedPost(id, gofakeit.Sentence(4))
		ids = append(ids, id)
	}
	return ids
}
