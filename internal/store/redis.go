package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"skillsphere/internal/models"
	"skillsphere/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Snapshots persists fetched reaction and comment lists in Redis so separate
// client processes start warm. It is strictly a read accelerator: the remote
// store stays authoritative and entries expire after the configured TTL.
type Snapshots struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshots connects to Redis at addr (host:port or redis:// URL). On any
// connection problem it returns a disabled instance rather than an error; the
// client works without a warm cache.
func NewSnapshots(addr string, ttl time.Duration) *Snapshots {
	if addr == "" {
		return &Snapshots{ttl: ttl}
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return &Snapshots{ttl: ttl}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return &Snapshots{ttl: ttl}
	}

	return &Snapshots{client: client, ttl: ttl}
}

// NewSnapshotsFromClient wraps an existing Redis client. Used by tests.
func NewSnapshotsFromClient(client *redis.Client, ttl time.Duration) *Snapshots {
	return &Snapshots{client: client, ttl: ttl}
}

// Enabled reports whether a Redis backend is available.
func (s *Snapshots) Enabled() bool {
	return s != nil && s.client != nil
}

func reactionsKey(postID uint) string {
	return fmt.Sprintf("skillsphere:reactions:%d", postID)
}

func commentsKey(postID uint) string {
	return fmt.Sprintf("skillsphere:comments:%d", postID)
}

// getJSON reads key and unmarshals into dest. Returns (true, nil) when found.
func (s *Snapshots) getJSON(ctx context.Context, kind, key string, dest any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.CacheResults.WithLabelValues(kind, "miss").Inc()
		return false, nil
	}
	if err != nil {
		observability.CacheResults.WithLabelValues(kind, "error").Inc()
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		observability.CacheResults.WithLabelValues(kind, "error").Inc()
		return false, err
	}
	observability.CacheResults.WithLabelValues(kind, "hit").Inc()
	return true, nil
}

// setJSON marshals v and stores it under key with the configured TTL.
func (s *Snapshots) setJSON(ctx context.Context, key string, v any) error {
	if !s.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

// LoadReactions returns a cached reaction list for a post, if one exists.
func (s *Snapshots) LoadReactions(ctx context.Context, postID uint) ([]models.Reaction, bool, error) {
	var rs []models.Reaction
	found, err := s.getJSON(ctx, "reactions", reactionsKey(postID), &rs)
	return rs, found, err
}

// SaveReactions caches a reaction list. Placeholder reactions are skipped:
// only server-confirmed state may outlive the process.
func (s *Snapshots) SaveReactions(ctx context.Context, postID uint, rs []models.Reaction) error {
	confirmed := make([]models.Reaction, 0, len(rs))
	for _, r := range rs {
		if _, ok := r.ID.Confirmed(); ok {
			confirmed = append(confirmed, r)
		}
	}
	return s.setJSON(ctx, reactionsKey(postID), confirmed)
}

// LoadComments returns a cached comment list for a post, if one exists.
func (s *Snapshots) LoadComments(ctx context.Context, postID uint) ([]models.Comment, bool, error) {
	var cs []models.Comment
	found, err := s.getJSON(ctx, "comments", commentsKey(postID), &cs)
	return cs, found, err
}

// SaveComments caches a comment list.
func (s *Snapshots) SaveComments(ctx context.Context, postID uint, cs []models.Comment) error {
	return s.setJSON(ctx, commentsKey(postID), cs)
}

// InvalidateComments drops the cached comment list for a post.
func (s *Snapshots) InvalidateComments(ctx context.Context, postID uint) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, commentsKey(postID)).Err()
}
