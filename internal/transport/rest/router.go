package rest

import (
	"net/http"
	"scholarprep/internal/i18n"
	"scholarprep/internal/metrics"
	"scholarprep/internal/model"
	"scholarprep/internal/service"
	"scholarprep/internal/transport/rest/handler"
	"scholarprep/internal/transport/rest/middleware"
	"scholarprep/internal/transport/ws"
	"scholarprep/internal/validation"
	"strings"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	ExamService         *service.ExamService
	AttemptService      *service.AttemptService
	ProgressService     *service.ProgressService
	Paper2Service       *service.Paper2Service
	GamificationService *service.GamificationService
	TutorService        *service.TutorService
	WSHub               *ws.Hub
	Validator           *validation.Validator
	CORSOrigins         []string
	Language            string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	v := c.Validator
	if v == nil {
		v = validation.New()
	}

	authHandler := handler.NewAuthHandler(c.AuthService, v)
	examHandler := handler.NewExamHandler(c.ExamService, v)
	attemptHandler := handler.NewAttemptHandler(c.AttemptService, v)
	progressHandler := handler.NewProgressHandler(c.ProgressService)
	paper2Handler := handler.NewPaper2Handler(c.Paper2Service, v)
	gamificationHandler := handler.NewGamificationHandler(c.GamificationService)
	tutorHandler := handler.NewTutorHandler(c.TutorService, v)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware(c.CORSOrigins))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(metrics.Middleware)
	if c.Language != "" {
		r.Use(i18n.Middleware(c.Language))
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/gamification/badges", gamificationHandler.Badges).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/notifications", wsHandler.Notifications).Methods("GET")

	// Any authenticated user
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireAuth)

	authed.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	authed.HandleFunc("/exams", examHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/exams/{id}", examHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/attempts/{id}", attemptHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/students/{id}/attempts", attemptHandler.ListForStudent).Methods("GET", "OPTIONS")
	authed.HandleFunc("/students/{id}/progress", progressHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/gamification/leaderboard", gamificationHandler.Leaderboard).Methods("GET", "OPTIONS")
	authed.HandleFunc("/tutor/sessions", tutorHandler.Start).Methods("POST", "OPTIONS")
	authed.HandleFunc("/tutor/sessions/{id}", tutorHandler.History).Methods("GET", "OPTIONS")
	authed.HandleFunc("/tutor/sessions/{id}", tutorHandler.End).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/tutor/sessions/{id}/messages", tutorHandler.Send).Methods("POST", "OPTIONS")

	// Students
	students := v1.NewRoute().Subrouter()
	students.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleStudent))

	students.HandleFunc("/exams/{id}/attempts", attemptHandler.Start).Methods("POST", "OPTIONS")
	students.HandleFunc("/attempts/{id}/answers", attemptHandler.SaveAnswer).Methods("PUT", "OPTIONS")
	students.HandleFunc("/attempts/{id}/submit", attemptHandler.Submit).Methods("POST", "OPTIONS")
	students.HandleFunc("/gamification/me", gamificationHandler.Me).Methods("GET", "OPTIONS")

	// Students and parents
	families := v1.NewRoute().Subrouter()
	families.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleStudent, model.RoleParent))

	families.HandleFunc("/paper2", paper2Handler.Submit).Methods("POST", "OPTIONS")

	// Exam authors
	authors := v1.NewRoute().Subrouter()
	authors.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleTeacher, model.RoleTypesetter, model.RoleAdmin))

	authors.HandleFunc("/exams", examHandler.Create).Methods("POST", "OPTIONS")
	authors.HandleFunc("/exams/{id}", examHandler.Update).Methods("PUT", "OPTIONS")

	// Teachers and admins
	staff := v1.NewRoute().Subrouter()
	staff.Use(authMW.RequireAuth, middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))

	staff.HandleFunc("/exams/{id}/publish", examHandler.Publish).Methods("POST", "OPTIONS")
	staff.HandleFunc("/exams/{id}/close", examHandler.Close).Methods("POST", "OPTIONS")
	staff.HandleFunc("/exams/{id}/paper2", paper2Handler.ListForExam).Methods("GET", "OPTIONS")
	staff.HandleFunc("/paper2/{id}/mark", paper2Handler.Mark).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := strings.Join(origins, ", ")
	if allowed == "" {
		allowed = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
