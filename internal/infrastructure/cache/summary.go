package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"loanpro-backend/internal/domain/loan"
	"loanpro-backend/pkg/date"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKey = "analytics:summary"
	// bumped by every write; an entry stamped with an older generation is stale
	summaryGenKey = "analytics:summary:gen"
)

type summaryEntry struct {
	Day       date.Date      `json:"day"`
	Gen       int64          `json:"gen"`
	Portfolio loan.Portfolio `json:"portfolio"`
}

// SummaryCache keeps the latest portfolio aggregate under one key. An entry
// computed on another calendar day, or before the last Invalidate, reads as a miss.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached portfolio for day, or nil on a miss, together with
// the current generation. Pass that generation to Set.
func (c *SummaryCache) Get(ctx context.Context, day date.Date) (*loan.Portfolio, int64, error) {
	vals, err := c.rdb.MGet(ctx, summaryKey, summaryGenKey).Result()
	if err != nil {
		return nil, 0, err
	}

	var gen int64
	if s, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, 0, fmt.Errorf("summary generation: %w", err)
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, nil
	}
	var e summaryEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, gen, err
	}
	if e.Day != day || e.Gen != gen {
		return nil, gen, nil
	}
	return &e.Portfolio, gen, nil
}

// Set stores p stamped with gen, the generation observed before p was computed.
func (c *SummaryCache) Set(ctx context.Context, day date.Date, gen int64, p loan.Portfolio) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(summaryEntry{Day: day, Gen: gen, Portfolio: p})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryKey, raw, c.ttl).Err()
}

// Invalidate drops the entry and bumps the generation, so an aggregate
// computed before this call can no longer be served.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, summaryGenKey)
		p.Del(ctx, summaryKey)
		return nil
	})
	return err
}
