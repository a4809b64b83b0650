package cache

import (
	"context"
	"encoding/json"
	"scholarprep/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChatSessionCache stores tutor chat sessions. Every Set refreshes the TTL,
// so idle sessions expire on their own.
type ChatSessionCache interface {
	Set(ctx context.Context, session *model.ChatSession) error
	Get(ctx context.Context, id string) (*model.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

type chatSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewChatSessionCache(client *redis.Client, ttl time.Duration) ChatSessionCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &chatSessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *chatSessionCache) Set(ctx context.Context, session *model.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "chat:session:"+session.ID, data, c.ttl).Err()
}

func (c *chatSessionCache) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	data, err := c.client.Get(ctx, "chat:session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *chatSessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "chat:session:"+id).Err()
}
