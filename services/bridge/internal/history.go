package internal

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const historyKey = "lightspeed:prompt_history"

// History keeps the most recent prompts in a capped Redis list. A nil
// History (no Redis configured) is valid and drops every write.
type History struct {
	client *redis.Client
	limit  int64
}

func NewHistory(url string, limit int) (*History, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return &History{client: redis.NewClient(opt), limit: int64(limit)}, nil
}

func (h *History) Append(ctx context.Context, prompt string) error {
	if h == nil || h.client == nil {
		return nil
	}
	if err := h.client.LPush(ctx, historyKey, prompt).Err(); err != nil {
		return err
	}
	return h.client.LTrim(ctx, historyKey, 0, h.limit-1).Err()
}

func (h *History) Recent(ctx context.Context, n int64) ([]string, error) {
	if h == nil || h.client == nil {
		return nil, nil
	}
	if n <= 0 || n > h.limit {
		n = h.limit
	}
	return h.client.LRange(ctx, historyKey, 0, n-1).Result()
}

func (h *History) Close() error {
	if h == nil || h.client == nil {
		return nil
	}
	return h.client.Close()
}
