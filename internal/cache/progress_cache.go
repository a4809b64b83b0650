package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"scholarprep/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProgressCache holds computed progress reports until the student's results
// change
type ProgressCache interface {
	Get(ctx context.Context, studentID string) (*model.ProgressReport, error)
	Set(ctx context.Context, report *model.ProgressReport) error
	Invalidate(ctx context.Context, studentID string) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new progress cache
func NewProgressCache(client *redis.Client) ProgressCache {
	return &progressCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *progressCache) key(studentID string) string {
	return fmt.Sprintf("student:%s:progress", studentID)
}

func (c *progressCache) Get(ctx context.Context, studentID string) (*model.ProgressReport, error) {
	data, err := c.client.Get(ctx, c.key(studentID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.ProgressReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *progressCache) Set(ctx context.Context, report *model.ProgressReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(report.StudentID), data, c.ttl).Err()
}

func (c *progressCache) Invalidate(ctx context.Context, studentID string) error {
	return c.client.Del(ctx, c.key(studentID)).Err()
}
