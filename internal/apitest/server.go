// Package apitest provides an in-process stand-in for the Skill-Sphere backend
// used by client tests. It implements the remote store contract with real
// semantics (uniqueness, ownership, dual-permission deletes) on an in-memory
// SQLite database, and is reachable through an http.RoundTripper so the real
// client code runs against it unchanged.
package apitest

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type user struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"not null"`
	Email    string
}

type post struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Content   string
	Category  string
	CreatedAt time.Time
}

type reaction struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_reactions_post_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reactions_post_user"`
	Type      string `gorm:"not null"`
	CreatedAt time.Time
}

type comment struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null;index"`
	Content   string
	CreatedAt time.Time
	EditedAt  *time.Time
}

var validReactionTypes = map[string]bool{"LIKE": true, "LOVE": true, "INSIGHTFUL": true}

// Server is the fixture backend.
type Server struct {
	app    *fiber.App
	db     *gorm.DB
	secret string

	mu       sync.Mutex
	failures map[string]int             // "METHOD prefix" -> remaining forced failures
	holds    map[string][]chan struct{} // "METHOD prefix" -> pending request gates
}

// NewServer creates a fixture server with a fresh in-memory database.
func NewServer() (*Server, error) {
	dsn := fmt.Sprintf("file:apitest-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open fixture database: %w", err)
	}
	if err := db.AutoMigrate(&user{}, &post{}, &reaction{}, &comment{}); err != nil {
		return nil, fmt.Errorf("migrate fixture database: %w", err)
	}

	s := &Server{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		db:       db,
		secret:   "apitest-secret",
		failures: make(map[string]int),
		holds:    make(map[string][]chan struct{}),
	}
	s.routes()
	return s, nil
}

// Token issues a signed bearer token for the given user, expiring in one hour.
func (s *Server) Token(userID uint) string {
	return s.TokenExpiring(userID, time.Hour)
}

// TokenExpiring issues a signed bearer token with an explicit lifetime.
// Negative lifetimes produce an already-expired token.
func (s *Server) TokenExpiring(userID uint, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return signed
}

// FailNext arms one forced 500 response for the next request matching the
// method and path prefix.
func (s *Server) FailNext(method, prefix string) {
	s.mu.Lock()
	s.failures[method+" "+prefix]++
	s.mu.Unlock()
}

func (s *Server) shouldFail(method, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, n := range s.failures {
		if n <= 0 {
			continue
		}
		m, prefix, _ := strings.Cut(key, " ")
		if m == method && strings.HasPrefix(path, prefix) {
			s.failures[key]--
			return true
		}
	}
	return false
}

// HoldNext blocks the next request matching the method and path prefix until
// the returned release function is called. Lets tests observe the client's
// in-flight optimistic state.
func (s *Server) HoldNext(method, prefix string) (release func()) {
	ch := make(chan struct{})
	key := method + " " + prefix
	s.mu.Lock()
	s.holds[key] = append(s.holds[key], ch)
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *Server) maybeHold(method, path string) {
	var gate chan struct{}
	s.mu.Lock()
	for key, pending := range s.holds {
		if len(pending) == 0 {
			continue
		}
		m, prefix, _ := strings.Cut(key, " ")
		if m == method && strings.HasPrefix(path, prefix) {
			gate = pending[0]
			s.holds[key] = pending[1:]
			break
		}
	}
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (s *Server) routes() {
	s.app.Use(func(c *fiber.Ctx) error {
		s.maybeHold(c.Method(), c.Path())
		if s.shouldFail(c.Method(), c.Path()) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "injected failure",
			})
		}
		return c.Next()
	})

	api := s.app.Group("/api", s.authRequired)

	api.Get("/posts", s.listPosts)
	api.Get("/posts/:id", s.getPost)

	api.Get("/reactions/post/:postId", s.listReactions)
	api.Post("/reactions", s.createReaction)
	api.Put("/reactions/:id", s.updateReaction)
	api.Delete("/reactions/:id", s.deleteReaction)

	api.Get("/comments/post/:postId", s.listComments)
	api.Post("/comments", s.createComment)
	api.Put("/comments/:id", s.updateComment)
	api.Delete("/comments/:id", s.deleteComment)
}

// authRequired mirrors the production backend: HS256 bearer token with the
// user ID in the subject claim.
func (s *Server) authRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token subject"})
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID in token"})
	}

	c.Locals("userID", uint(userID))
	return c.Next()
}

func currentUser(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

func postJSON(p post) fiber.Map {
	return fiber.Map{
		"postId":    p.ID,
		"userId":    p.UserID,
		"title":     p.Title,
		"content":   p.Content,
		"category":  p.Category,
		"createdAt": p.CreatedAt,
	}
}

func reactionJSON(r reaction) fiber.Map {
	return fiber.Map{
		"reactionId":   r.ID,
		"postId":       r.PostID,
		"userId":       r.UserID,
		"reactionType": r.Type,
		"createdAt":    r.CreatedAt,
	}
}

func commentJSON(c comment) fiber.Map {
	return fiber.Map{
		"commentId": c.ID,
		"postId":    c.PostID,
		"userId":    c.UserID,
		"content":   c.Content,
		"createdAt": c.CreatedAt,
		"updatedAt": c.EditedAt,
	}
}

func (s *Server) listPosts(c *fiber.Ctx) error {
	var posts []post
	if err := s.db.Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	out := make([]fiber.Map, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON(p))
	}
	return c.JSON(out)
}

func (s *Server) getPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid post id"})
	}
	var p post
	if err := s.db.First(&p, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}
	return c.JSON(postJSON(p))
}

func (s *Server) listReactions(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("postId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid post id"})
	}
	var rs []reaction
	if err := s.db.Where("post_id = ?", postID).Order("id asc").Find(&rs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	out := make([]fiber.Map, 0, len(rs))
	for _, r := range rs {
		out = append(out, reactionJSON(r))
	}
	return c.JSON(out)
}

func (s *Server) createReaction(c *fiber.Ctx) error {
	var body struct {
		PostID       uint   `json:"postId"`
		ReactionType string `json:"reactionType"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !validReactionTypes[body.ReactionType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown reaction type"})
	}

	var p post
	if err := s.db.First(&p, body.PostID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	userID := currentUser(c)
	var existing reaction
	if err := s.db.Where("post_id = ? AND user_id = ?", body.PostID, userID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "reaction already exists for this user on this post",
		})
	}

	r := reaction{PostID: body.PostID, UserID: userID, Type: body.ReactionType}
	if err := s.db.Create(&r).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(reactionJSON(r))
}

func (s *Server) updateReaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reaction id"})
	}
	newType := c.Query("newReactionType")
	if !validReactionTypes[newType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown reaction type"})
	}

	var r reaction
	if err := s.db.First(&r, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reaction not found"})
	}
	if r.UserID != currentUser(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to update this reaction",
		})
	}

	r.Type = newType
	if err := s.db.Save(&r).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(reactionJSON(r))
}

func (s *Server) deleteReaction(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid reaction id"})
	}
	var r reaction
	if err := s.db.First(&r, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reaction not found"})
	}
	if r.UserID != currentUser(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to delete this reaction",
		})
	}
	if err := s.db.Delete(&r).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listComments(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("postId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid post id"})
	}
	var cs []comment
	if err := s.db.Where("post_id = ?", postID).Order("created_at asc, id asc").Find(&cs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	out := make([]fiber.Map, 0, len(cs))
	for _, cm := range cs {
		out = append(out, commentJSON(cm))
	}
	return c.JSON(out)
}

func (s *Server) createComment(c *fiber.Ctx) error {
	var body struct {
		PostID  uint   `json:"postId"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	var p post
	if err := s.db.First(&p, body.PostID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	cm := comment{PostID: body.PostID, UserID: currentUser(c), Content: body.Content}
	if err := s.db.Create(&cm).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(commentJSON(cm))
}

func (s *Server) updateComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
	}
	content := c.Query("updatedContent")
	if strings.TrimSpace(content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	var cm comment
	if err := s.db.First(&cm, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
	}
	if cm.UserID != currentUser(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to update this comment",
		})
	}

	now := time.Now().UTC()
	cm.Content = content
	cm.EditedAt = &now
	if err := s.db.Save(&cm).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(commentJSON(cm))
}

func (s *Server) deleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid comment id"})
	}
	var cm comment
	if err := s.db.First(&cm, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
	}

	userID := currentUser(c)
	if cm.UserID != userID {
		var p post
		if err := s.db.First(&p, cm.PostID).Error; err != nil || p.UserID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "You are not authorized to delete this comment",
			})
		}
	}
	if err := s.db.Delete(&cm).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
