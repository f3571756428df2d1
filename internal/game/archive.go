package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultArchive keeps summaries of finished matches in Redis with a TTL.
// Only completed games land here; live session and match state stays in
// memory.
type ResultArchive struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultArchive(rdb *redis.Client, ttl time.Duration) *ResultArchive {
	return &ResultArchive{rdb: rdb, ttl: ttl}
}

func (a *ResultArchive) key(sessionID string, at time.Time) string {
	return fmt.Sprintf("result:%s:%d", sessionID, at.UnixMilli())
}

func (a *ResultArchive) SaveResult(ctx context.Context, res MatchResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return a.rdb.Set(ctx, a.key(res.SessionID, res.FinishedAt), b, a.ttl).Err()
}

// LoadResults returns the archived results for one session, newest last.
// Keys are collected with cursor SCAN; KEYS would block the server on a
// shared instance.
func (a *ResultArchive) LoadResults(ctx context.Context, sessionID string) ([]MatchResult, error) {
	pattern := fmt.Sprintf("result:%s:*", sessionID)

	var keys []string
	var cursor uint64
	for {
		batch, next, err := a.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}

	out := make([]MatchResult, 0, len(keys))
	for _, k := range keys {
		val, err := a.rdb.Get(ctx, k).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		var res MatchResult
		if err := json.Unmarshal(val, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FinishedAt.Before(out[j].FinishedAt)
	})
	return out, nil
}
