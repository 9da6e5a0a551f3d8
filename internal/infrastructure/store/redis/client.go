package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

const defaultKeyPrefix = "prodlens"

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs     []string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is the Redis-backed document store for summaries, comparisons and users.
type Store struct {
	client rueidis.Client
	keys   keyspace
}

// NewStore creates a Redis store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return newStore(client, cfg.KeyPrefix), nil
}

func newStore(client rueidis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{client: client, keys: keyspace{prefix: prefix}}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.b().Ping().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &Error{Op: OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// keyspace builds the Redis keys used by the store.
type keyspace struct {
	prefix string
}

const anonymousOwner = "anon"

func (k keyspace) summary(id string) string { return k.prefix + ":summary:" + id }

func (k keyspace) summaries(userID string) string {
	return k.prefix + ":summaries:user:" + ownerSegment(userID)
}

// summaryBucket indexes summaries sharing a domain.SummaryFilter key.
func (k keyspace) summaryBucket(key string) string { return k.prefix + ":summaries:dedup:" + key }

func (k keyspace) comparison(id string) string { return k.prefix + ":comparison:" + id }

func (k keyspace) comparisons(userID string) string {
	return k.prefix + ":comparisons:user:" + ownerSegment(userID)
}

// comparisonBucket indexes comparisons sharing a domain.ComparisonFilter key.
func (k keyspace) comparisonBucket(key string) string { return k.prefix + ":comparisons:dedup:" + key }

func (k keyspace) user(id string) string { return k.prefix + ":user:" + id }

func (k keyspace) userEmail(email string) string { return k.prefix + ":user:email:" + email }

func ownerSegment(userID string) string {
	if userID == "" {
		return anonymousOwner
	}
	return userID
}
