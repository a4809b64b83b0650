package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/validation"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: validation.NewError("grade", "grade is required"), status: http.StatusBadRequest},
		{name: "credentials", err: service.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{name: "token", err: service.ErrInvalidToken, status: http.StatusUnauthorized},
		{name: "forbidden", err: service.ErrUnauthorized, status: http.StatusForbidden},
		{name: "not found", err: fmt.Errorf("attempt x: %w", service.ErrNotFound), status: http.StatusNotFound},
		{name: "already submitted", err: service.ErrAlreadySubmitted, status: http.StatusConflict},
		{name: "exam unavailable", err: service.ErrExamUnavailable, status: http.StatusConflict},
		{name: "email taken", err: service.ErrEmailTaken, status: http.StatusConflict},
		{name: "tutor disabled", err: service.ErrTutorDisabled, status: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/v1/x", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/v1/x", nil), errors.New("mongo: connection refused"))
	assert.NotContains(t, rec.Body.String(), "mongo")
}

type stubExamRepo struct {
	exams map[string]*model.Exam
}

func (r *stubExamRepo) Create(ctx context.Context, exam *model.Exam) error {
	r.exams[exam.ID] = exam
	return nil
}

func (r *stubExamRepo) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	return r.exams[id], nil
}

func (r *stubExamRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Exam, error) {
	return r.exams, nil
}

func (r *stubExamRepo) List(ctx context.Context, filter model.ExamFilter) ([]*model.Exam, error) {
	var out []*model.Exam
	for _, e := range r.exams {
		if filter.Status == "" || e.Status == filter.Status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubExamRepo) ReplaceDraft(ctx context.Context, exam *model.Exam) (bool, error) {
	return false, nil
}

func (r *stubExamRepo) Transition(ctx context.Context, id string, from, to model.ExamStatus, at time.Time) (bool, error) {
	return false, nil
}

type noCache struct{}

func (noCache) Get(ctx context.Context, filter model.ExamFilter) ([]model.ExamSummary, int64, error) {
	return nil, 0, nil
}

func (noCache) Set(ctx context.Context, filter model.ExamFilter, gen int64, exams []model.ExamSummary) error {
	return nil
}

func (noCache) Invalidate(ctx context.Context) error { return nil }

func newTestExamHandler() *ExamHandler {
	opts := model.Options{{OptionID: "A", Text: "4", IsCorrect: true}, {OptionID: "B", Text: "5"}}
	repo := &stubExamRepo{exams: map[string]*model.Exam{
		"pub": {
			ID: "pub", Title: "Published", Status: model.ExamPublished,
			Questions: []model.Question{{ID: "Q1", QuestionText: "2+2", Options: opts, CorrectOptionID: "A", SkillArea: model.SkillMathematicalReasoning}},
		},
		"draft": {ID: "draft", Title: "Draft", Status: model.ExamDraft},
	}}
	return NewExamHandler(service.NewExamService(repo, noCache{}), validation.New())
}

func asRole(r *http.Request, role model.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, "u-1")
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func TestExamGetHidesAnswerKeys(t *testing.T) {
	h := newTestExamHandler()

	tests := []struct {
		name     string
		role     model.Role
		id       string
		status   int
		showsKey bool
	}{
		{name: "student sees view", role: model.RoleStudent, id: "pub", status: http.StatusOK},
		{name: "student cannot see draft", role: model.RoleStudent, id: "draft", status: http.StatusNotFound},
		{name: "typesetter sees keys", role: model.RoleTypesetter, id: "pub", status: http.StatusOK, showsKey: true},
		{name: "teacher sees draft", role: model.RoleTeacher, id: "draft", status: http.StatusOK},
		{name: "missing", role: model.RoleTeacher, id: "nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asRole(httptest.NewRequest(http.MethodGet, "/v1/exams/"+tt.id, nil), tt.role)
			req = mux.SetURLVars(req, map[string]string{"id": tt.id})
			rec := httptest.NewRecorder()

			h.Get(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}
			body := rec.Body.String()
			assert.Equal(t, tt.showsKey, strings.Contains(body, "correctOptionId"))
			assert.Equal(t, tt.showsKey, strings.Contains(body, "isCorrect"))
		})
	}
}

func TestExamListForcesPublishedForStudents(t *testing.T) {
	h := newTestExamHandler()

	req := asRole(httptest.NewRequest(http.MethodGet, "/v1/exams?status=draft", nil), model.RoleStudent)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.ExamSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "pub", got[0].ID)
}

func TestExamCreateRejectsInvalidBody(t *testing.T) {
	h := newTestExamHandler()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "missing fields", body: `{"title":"x"}`},
		{name: "misspelled field", body: `{"title":"x","grade":"grade_5","month":"2026-05","durationMinute":30,"questions":[{"questionText":"q","options":[{"optionId":"A","text":"a"},{"optionId":"B","text":"b"}],"correctOptionId":"A","skillArea":"general_knowledge"}]}`},
		{name: "client-set status", body: `{"title":"x","grade":"grade_5","month":"2026-05","status":"published","questions":[{"questionText":"q","options":[{"optionId":"A","text":"a"},{"optionId":"B","text":"b"}],"correctOptionId":"A","skillArea":"general_knowledge"}]}`},
		{name: "legacy answer key on question", body: `{"title":"x","grade":"grade_5","month":"2026-05","questions":[{"questionText":"q","options":[{"optionId":"A","text":"a"},{"optionId":"B","text":"b"}],"correctOptionId":"A","correct_answer":"B","skillArea":"general_knowledge"}]}`},
		{name: "bad skill", body: `{"title":"x","grade":"grade_5","month":"2026-05","questions":[{"questionText":"q","options":[{"optionId":"A","text":"a"},{"optionId":"B","text":"b"}],"correctOptionId":"A","skillArea":"astrology"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asRole(httptest.NewRequest(http.MethodPost, "/v1/exams", strings.NewReader(tt.body)), model.RoleTypesetter)
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExamCreateStartsAsDraft(t *testing.T) {
	h := newTestExamHandler()
	body := `{"title":"May","grade":"grade_5","month":"2026-05","questions":[{"id":"Q1","questionText":"q","options":[{"optionId":"A","text":"a"},{"optionId":"B","text":"b"}],"correctOptionId":"B","skillArea":"general_knowledge"}]}`

	req := asRole(httptest.NewRequest(http.MethodPost, "/v1/exams", strings.NewReader(body)), model.RoleTypesetter)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Exam
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.ExamDraft, got.Status)
	assert.Equal(t, "u-1", got.CreatedBy)
}
