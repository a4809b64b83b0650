package repository

import (
	"context"
	"scholarprep/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GamificationRepo handles MongoDB operations for student points and badges
type GamificationRepo interface {
	Get(ctx context.Context, studentID string) (*model.GamificationStats, error)
	// Save writes stats only if the stored version still matches
	// stats.Version, bumping it on success. It reports false when another
	// writer got there first.
	Save(ctx context.Context, stats *model.GamificationStats) (bool, error)
}

type gamificationRepo struct {
	collection *mongo.Collection
}

// NewGamificationRepo creates a new gamification repository
func NewGamificationRepo(db *mongo.Database) GamificationRepo {
	return &gamificationRepo{
		collection: db.Collection("gamification_stats"),
	}
}

func (r *gamificationRepo) Get(ctx context.Context, studentID string) (*model.GamificationStats, error) {
	var stats model.GamificationStats
	err := r.collection.FindOne(ctx, bson.M{"_id": studentID}).Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *gamificationRepo) Save(ctx context.Context, stats *model.GamificationStats) (bool, error) {
	prev := stats.Version
	filter := bson.M{"_id": stats.StudentID, "version": prev}
	if prev == 0 {
		filter["version"] = bson.M{"$exists": false}
	}

	stats.Version = prev + 1
	opts := options.Replace().SetUpsert(true)
	res, err := r.collection.ReplaceOne(ctx, filter, stats, opts)
	if mongo.IsDuplicateKeyError(err) {
		// the upsert collided with a newer document
		stats.Version = prev
		return false, nil
	}
	if err != nil {
		stats.Version = prev
		return false, err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		stats.Version = prev
		return false, nil
	}
	return true, nil
}
