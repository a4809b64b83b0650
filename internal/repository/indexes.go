package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every repository relies on. The partial
// unique index on attempts enforces one incomplete attempt per student and exam.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	oneIncomplete := options.Index().
		SetName("one_incomplete_attempt").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"isCompleted": false})

	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"exams": {
			{Keys: bson.D{{Key: "grade", Value: 1}, {Key: "month", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"attempts": {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "examId", Value: 1}}, Options: oneIncomplete},
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "submittedAt", Value: 1}}},
		},
		"paper2_submissions": {
			{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "examId", Value: 1}}},
			{Keys: bson.D{{Key: "examId", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
