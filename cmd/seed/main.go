package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"scholarprep/internal/config"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := seedCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample users and legacy-format exams",
		RunE:  runSeed,
	}
	config.AddConnectionFlags(cmd)
	cmd.Flags().String("password", "password123", "Password for every seeded user")
	return cmd
}

type seedUser struct {
	email    string
	name     string
	role     model.Role
	grade    model.Grade
	language model.Language
}

var users = []seedUser{
	{"student@scholarprep.lk", "Nimal Perera", model.RoleStudent, model.Grade5, model.LangSinhala},
	{"parent@scholarprep.lk", "Kamala Perera", model.RoleParent, "", model.LangSinhala},
	{"teacher@scholarprep.lk", "Suresh Kumar", model.RoleTeacher, "", model.LangTamil},
	{"typesetter@scholarprep.lk", "Dilini Silva", model.RoleTypesetter, "", model.LangEnglish},
	{"admin@scholarprep.lk", "Admin", model.RoleAdmin, "", model.LangEnglish},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	v := config.ForCommand(cmd)
	config.SetupLogging(v)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(v.GetString("mongo-uri")))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(v.GetString("mongo-db"))
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(v.GetString("password")), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ids, err := seedUsers(ctx, db, string(hash))
	if err != nil {
		return err
	}

	// link the sample parent and student both ways
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": ids["parent@scholarprep.lk"]},
		bson.M{"$set": bson.M{"linkedStudentId": ids["student@scholarprep.lk"]}})
	if err != nil {
		return fmt.Errorf("link parent: %w", err)
	}
	if err := repository.NewUserRepo(db).LinkParent(ctx, ids["student@scholarprep.lk"], ids["parent@scholarprep.lk"]); err != nil {
		return fmt.Errorf("link parent: %w", err)
	}

	n, err := seedExams(ctx, db, ids["typesetter@scholarprep.lk"])
	if err != nil {
		return err
	}

	slog.Info("seed complete", "users", len(ids), "exams", n)
	return nil
}

// seedUsers inserts users that do not exist yet and returns every user's ID by email
func seedUsers(ctx context.Context, db *mongo.Database, passwordHash string) (map[string]string, error) {
	coll := db.Collection("users")
	ids := make(map[string]string, len(users))
	now := time.Now().UTC()

	for _, u := range users {
		filter := bson.M{"email": u.email}
		doc := bson.M{
			"_id":          uuid.New().String(),
			"email":        u.email,
			"passwordHash": passwordHash,
			"fullName":     u.name,
			"role":         u.role,
			"language":     u.language,
			"createdAt":    now,
		}
		if u.grade != "" {
			doc["grade"] = u.grade
		}
		_, err := coll.UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.email, err)
		}

		var stored model.User
		if err := coll.FindOne(ctx, filter).Decode(&stored); err != nil {
			return nil, fmt.Errorf("read user %s: %w", u.email, err)
		}
		ids[u.email] = stored.ID
		slog.Info("seeded user", "email", u.email, "role", u.role)
	}
	return ids, nil
}

// seedExams writes exams in the legacy shape: bare string options, a flat
// correctAnswer holding the option letter, and no question ids
func seedExams(ctx context.Context, db *mongo.Database, createdBy string) (int, error) {
	coll := db.Collection("exams")
	now := time.Now().UTC()

	exams := []bson.M{
		legacyExam("Grade 5 Scholarship Mock - January", "2026-01", createdBy, now, []bson.M{
			legacyQuestion(1, "What is 25 + 17?", []string{"32", "42", "52", "43"}, "B", model.SkillMathematicalReasoning),
			legacyQuestion(2, "Which word is a noun?", []string{"run", "happy", "table", "quickly"}, "C", model.SkillLanguageProficiency),
			legacyQuestion(3, "What is the capital of Sri Lanka?", []string{"Kandy", "Sri Jayawardenepura Kotte", "Galle", "Jaffna"}, "B", model.SkillGeneralKnowledge),
			legacyQuestion(4, "Which number comes next: 2, 4, 8, 16, ...?", []string{"18", "24", "32", "20"}, "C", model.SkillLogicalThinking),
		}),
		legacyExam("Grade 5 Scholarship Mock - February", "2026-02", createdBy, now, []bson.M{
			legacyQuestion(1, "How many sides does a hexagon have?", []string{"5", "6", "7", "8"}, "B", model.SkillSpatialReasoning),
			legacyQuestion(2, "What is 9 x 7?", []string{"56", "63", "72", "81"}, "B", model.SkillMathematicalReasoning),
			legacyQuestion(3, "Which is the longest river in Sri Lanka?", []string{"Kelani", "Mahaweli", "Kalu", "Walawe"}, "B", model.SkillGeneralKnowledge),
		}),
	}

	for _, e := range exams {
		_, err := coll.UpdateOne(ctx,
			bson.M{"title": e["title"]},
			bson.M{"$setOnInsert": e},
			options.Update().SetUpsert(true))
		if err != nil {
			return 0, fmt.Errorf("seed exam %s: %w", e["title"], err)
		}
		slog.Info("seeded exam", "title", e["title"])
	}
	return len(exams), nil
}

func legacyExam(title, month, createdBy string, now time.Time, questions []bson.M) bson.M {
	return bson.M{
		"_id":              uuid.New().String(),
		"title":            title,
		"grade":            model.Grade5,
		"month":            month,
		"questions":        questions,
		"durationMinutes":  model.DefaultDurationMinutes,
		"totalMarksPaper1": len(questions),
		"totalMarksPaper2": model.DefaultTotalMarksPaper2,
		"status":           model.ExamPublished,
		"createdBy":        createdBy,
		"createdAt":        now,
		"updatedAt":        now,
		"publishedAt":      now,
	}
}

func legacyQuestion(number int, text string, opts []string, correct string, skill model.Skill) bson.M {
	return bson.M{
		"questionNumber": number,
		"questionText":   text,
		"options":        opts,
		"correctAnswer":  correct,
		"skillArea":      skill,
	}
}
