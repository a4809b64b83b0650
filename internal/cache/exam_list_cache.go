package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"scholarprep/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExamListCache is a read-through cache of exam listings keyed by
// (grade, status). Any exam create, update, publish or close must call
// Invalidate.
//
// Entries are stored under a generation that Invalidate bumps. Get reports
// the generation it read, and Set writes under that generation, so a list
// loaded before an Invalidate lands in a dead key instead of being served.
type ExamListCache interface {
	Get(ctx context.Context, filter model.ExamFilter) ([]model.ExamSummary, int64, error)
	Set(ctx context.Context, filter model.ExamFilter, gen int64, exams []model.ExamSummary) error
	Invalidate(ctx context.Context) error
}

const examListGenKey = "exams:list:gen"

type examListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExamListCache creates a new exam list cache
func NewExamListCache(client *redis.Client, ttl time.Duration) ExamListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &examListCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *examListCache) key(gen int64, filter model.ExamFilter) string {
	grade, status := string(filter.Grade), string(filter.Status)
	if grade == "" {
		grade = "all"
	}
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("exams:list:%d:%s:%s", gen, grade, status)
}

func (c *examListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, examListGenKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *examListCache) Get(ctx context.Context, filter model.ExamFilter) ([]model.ExamSummary, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	data, err := c.client.Get(ctx, c.key(gen, filter)).Bytes()
	if err == redis.Nil {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, err
	}
	var exams []model.ExamSummary
	if err := json.Unmarshal(data, &exams); err != nil {
		return nil, gen, err
	}
	return exams, gen, nil
}

func (c *examListCache) Set(ctx context.Context, filter model.ExamFilter, gen int64, exams []model.ExamSummary) error {
	if exams == nil {
		exams = []model.ExamSummary{}
	}
	data, err := json.Marshal(exams)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(gen, filter), data, c.ttl).Err()
}

// Invalidate retires every cached list. Old generations expire on their TTL.
func (c *examListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, examListGenKey).Err()
}
