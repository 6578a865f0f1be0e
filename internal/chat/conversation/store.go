// Package conversation persists short-lived chat histories in Redis so the
// assistant can follow up across requests without a database table.
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bizgenie_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:conversation:"

// Turn is one message in a conversation, either from the customer or the
// assistant.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Store keeps rolling conversation histories in Redis lists. Each
// conversation is capped at maxTurns entries and expires after ttl of
// inactivity.
type Store struct {
	rdb      *redis.Client
	ttl      time.Duration
	maxTurns int
}

// NewStore creates a conversation store.
func NewStore(rdb *redis.Client, cfg config.ConversationConfig) *Store {
	ttl := cfg.GetConversationTTL()
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	maxTurns := cfg.GetConversationMaxTurns()
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Store{rdb: rdb, ttl: ttl, maxTurns: maxTurns}
}

// Append adds turns to the conversation, trims it to the configured size,
// and refreshes its expiry.
func (s *Store) Append(ctx context.Context, conversationID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation turn: %w", err)
		}
		values = append(values, data)
	}

	key := keyPrefix + conversationID
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append conversation turns: %w", err)
	}

	return nil
}

// History returns the conversation's turns in chronological order. An
// unknown conversation yields an empty history, not an error.
func (s *Store) History(ctx context.Context, conversationID string) ([]Turn, error) {
	entries, err := s.rdb.LRange(ctx, keyPrefix+conversationID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	turns := make([]Turn, 0, len(entries))
	for _, entry := range entries {
		var turn Turn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			// A corrupt entry should not poison the whole history.
			continue
		}
		turns = append(turns, turn)
	}

	return turns, nil
}

// Exists reports whether the conversation has any stored turns.
func (s *Store) Exists(ctx context.Context, conversationID string) (bool, error) {
	count, err := s.rdb.Exists(ctx, keyPrefix+conversationID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check conversation: %w", err)
	}
	return count > 0, nil
}
