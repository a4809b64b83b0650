package repository

import (
	"context"
	"scholarprep/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExamRepo handles MongoDB operations for exams
type ExamRepo interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.Exam, error)
	List(ctx context.Context, filter model.ExamFilter) ([]*model.Exam, error)
	// ReplaceDraft overwrites an exam only while it is still a draft
	ReplaceDraft(ctx context.Context, exam *model.Exam) (bool, error)
	// Transition moves an exam from one status to another, reporting whether
	// the exam was in the expected status
	Transition(ctx context.Context, id string, from, to model.ExamStatus, at time.Time) (bool, error)
}

type examRepo struct {
	collection *mongo.Collection
}

// NewExamRepo creates a new exam repository
func NewExamRepo(db *mongo.Database) ExamRepo {
	return &examRepo{
		collection: db.Collection("exams"),
	}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) error {
	_, err := r.collection.InsertOne(ctx, exam)
	return err
}

func (r *examRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exam)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Exam, error) {
	out := make(map[string]*model.Exam, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exams []*model.Exam
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, err
	}
	for _, e := range exams {
		out[e.ID] = e
	}
	return out, nil
}

func (r *examRepo) List(ctx context.Context, filter model.ExamFilter) ([]*model.Exam, error) {
	query := bson.M{}
	if filter.Grade != "" {
		query["grade"] = filter.Grade
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exams := []*model.Exam{}
	if err := cursor.All(ctx, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepo) ReplaceDraft(ctx context.Context, exam *model.Exam) (bool, error) {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": exam.ID, "status": model.ExamDraft}, exam)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *examRepo) Transition(ctx context.Context, id string, from, to model.ExamStatus, at time.Time) (bool, error) {
	set := bson.M{"status": to, "updatedAt": at}
	if to == model.ExamPublished {
		set["publishedAt"] = at
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
