package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TMG-AI/liz-dashboard/internal/mention"
)

// Key layout. The sorted set holds the serialized mentions scored by publish
// time; the two sets are permanent dedup indices and are never trimmed; the
// hash maps mention id to its current payload so an upsert can remove the
// stale sorted-set member.
const (
	keyMentions = "mentions:z"
	keyURLSeen  = "mentions:url_seen"
	keyIDSeen   = "mentions:id_seen"
	keyByID     = "mentions:by_id"
)

type Store struct {
	client *redis.Client
	logger zerolog.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

func New(opts Options, logger zerolog.Logger) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, logger)
}

// NewWithClient wraps an existing client. Tests use this with an in-process
// server.
func NewWithClient(client *redis.Client, logger zerolog.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// InsertIfNew stores the mention unless its canonical URL has ever been seen.
// The membership test and the claim are a single SADD, so two writers racing
// on the same URL cannot both store it. Returns false when the URL was
// already claimed.
func (s *Store) InsertIfNew(ctx context.Context, m mention.Mention) (bool, error) {
	if m.Canon == "" || m.ID == "" {
		return false, fmt.Errorf("mention missing canonical url or id")
	}

	added, err := s.client.SAdd(ctx, keyURLSeen, m.Canon).Result()
	if err != nil {
		return false, fmt.Errorf("claim canonical url: %w", err)
	}
	if added == 0 {
		return false, nil
	}

	if err := s.write(ctx, m); err != nil {
		return false, err
	}
	return true, nil
}

// UpsertByID replaces the stored record for a mention id wholesale: the
// previous payload is removed from the sorted set before the new one is
// added, so a changed snapshot never leaves a stale twin behind.
func (s *Store) UpsertByID(ctx context.Context, m mention.Mention) error {
	if m.ID == "" {
		return fmt.Errorf("mention missing id")
	}

	previous, err := s.client.HGet(ctx, keyByID, m.ID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("load previous payload: %w", err)
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal mention: %w", err)
	}
	if previous == string(payload) {
		return nil
	}

	if previous != "" {
		if err := s.client.ZRem(ctx, keyMentions, previous).Err(); err != nil {
			return fmt.Errorf("remove stale payload: %w", err)
		}
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, keyMentions, redis.Z{Score: float64(m.PublishedTs), Member: payload})
	pipe.HSet(ctx, keyByID, m.ID, payload)
	pipe.SAdd(ctx, keyIDSeen, m.ID)
	if m.Canon != "" {
		pipe.SAdd(ctx, keyURLSeen, m.Canon)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert mention %s: %w", m.ID, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, m mention.Mention) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal mention: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, keyMentions, redis.Z{Score: float64(m.PublishedTs), Member: payload})
	pipe.HSet(ctx, keyByID, m.ID, payload)
	pipe.SAdd(ctx, keyIDSeen, m.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store mention %s: %w", m.ID, err)
	}
	return nil
}

// Range returns mentions published in [from, to], oldest first. Entries that
// no longer unmarshal are skipped, not fatal; one corrupt member should not
// take the read path down.
func (s *Store) Range(ctx context.Context, from, to time.Time) ([]mention.Mention, error) {
	members, err := s.client.ZRangeByScore(ctx, keyMentions, &redis.ZRangeBy{
		Min: strconv.FormatInt(from.Unix(), 10),
		Max: strconv.FormatInt(to.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range mentions: %w", err)
	}

	mentions := make([]mention.Mention, 0, len(members))
	for _, member := range members {
		var m mention.Mention
		if err := json.Unmarshal([]byte(member), &m); err != nil {
			s.logger.Warn().Err(err).Msg("Skipping unreadable stored mention")
			continue
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}

// RecentMentions returns everything published at or after since.
func (s *Store) RecentMentions(ctx context.Context, since time.Time) ([]mention.Mention, error) {
	members, err := s.client.ZRangeByScore(ctx, keyMentions, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range recent mentions: %w", err)
	}

	mentions := make([]mention.Mention, 0, len(members))
	for _, member := range members {
		var m mention.Mention
		if err := json.Unmarshal([]byte(member), &m); err != nil {
			s.logger.Warn().Err(err).Msg("Skipping unreadable stored mention")
			continue
		}
		mentions = append(mentions, m)
	}
	return mentions, nil
}

// TrimOlderThan drops sorted-set entries published strictly before the
// cutoff. The dedup indices are never trimmed: a URL seen once is seen
// forever, so an expired story cannot reappear as new.
func (s *Store) TrimOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := s.client.ZRemRangeByScore(ctx, keyMentions,
		"-inf", "("+strconv.FormatInt(cutoff.Unix(), 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("trim mentions: %w", err)
	}
	return removed, nil
}

type Stats struct {
	Mentions int64 `json:"mentions"`
	SeenURLs int64 `json:"seen_urls"`
	SeenIDs  int64 `json:"seen_ids"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	pipe := s.client.Pipeline()
	mentions := pipe.ZCard(ctx, keyMentions)
	urls := pipe.SCard(ctx, keyURLSeen)
	ids := pipe.SCard(ctx, keyIDSeen)
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, fmt.Errorf("collect stats: %w", err)
	}
	return Stats{
		Mentions: mentions.Val(),
		SeenURLs: urls.Val(),
		SeenIDs:  ids.Val(),
	}, nil
}
