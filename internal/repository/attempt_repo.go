package repository

import (
	"context"
	"errors"
	"scholarprep/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an insert violates a unique index
var ErrDuplicate = errors.New("duplicate key")

// AttemptRepo handles MongoDB operations for exam attempts
type AttemptRepo interface {
	// Create inserts a new attempt. It returns ErrDuplicate when the student
	// already has an incomplete attempt for the exam.
	Create(ctx context.Context, attempt *model.Attempt) error
	GetByID(ctx context.Context, id string) (*model.Attempt, error)
	FindIncomplete(ctx context.Context, studentID, examID string) (*model.Attempt, error)
	// SaveAnswer sets one answer on an incomplete attempt owned by studentID.
	// It reports false when no such attempt matched.
	SaveAnswer(ctx context.Context, id, studentID, questionID, answer string) (bool, error)
	// Complete stores the grading and flips the completion flag in one
	// conditional update. It reports false when no incomplete attempt matched.
	Complete(ctx context.Context, id, studentID string, g *model.Grading) (bool, error)
	ListCompletedByStudent(ctx context.Context, studentID string) ([]*model.Attempt, error)
}

type attemptRepo struct {
	collection *mongo.Collection
}

// NewAttemptRepo creates a new attempt repository
func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{
		collection: db.Collection("attempts"),
	}
}

func (r *attemptRepo) Create(ctx context.Context, attempt *model.Attempt) error {
	_, err := r.collection.InsertOne(ctx, attempt)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *attemptRepo) GetByID(ctx context.Context, id string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepo) FindIncomplete(ctx context.Context, studentID, examID string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.collection.FindOne(ctx, bson.M{
		"studentId":   studentID,
		"examId":      examID,
		"isCompleted": false,
	}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepo) SaveAnswer(ctx context.Context, id, studentID, questionID, answer string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "studentId": studentID, "isCompleted": false},
		bson.M{"$set": bson.M{"answers." + questionID: answer}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *attemptRepo) Complete(ctx context.Context, id, studentID string, g *model.Grading) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "studentId": studentID, "isCompleted": false},
		bson.M{"$set": bson.M{
			"isCompleted":      true,
			"submittedAt":      g.SubmittedAt,
			"timeTakenSeconds": g.TimeTakenSeconds,
			"late":             g.Late,
			"score":            g.Score,
			"totalMarks":       g.TotalMarks,
			"percentage":       g.Percentage,
			"skillScores":      g.SkillScores,
			"skillPercentages": g.SkillPercentages,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *attemptRepo) ListCompletedByStudent(ctx context.Context, studentID string) ([]*model.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"studentId": studentID, "isCompleted": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attempts := []*model.Attempt{}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}
