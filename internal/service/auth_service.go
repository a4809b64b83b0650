package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
	"scholarprep/internal/validation"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
)

const tokenTTL = 7 * 24 * time.Hour

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo  repository.UserRepo
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepo, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// Register creates an account. Parents may link a student at sign-up.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	if req.Role == model.RoleStudent && req.Grade == "" {
		return nil, validation.NewError("grade", "grade is required for students")
	}

	var linked *model.User
	if req.LinkedStudentID != "" {
		if req.Role != model.RoleParent {
			return nil, validation.NewError("linkedStudentId", "only parents can link a student")
		}
		var err error
		linked, err = s.userRepo.GetByID(ctx, req.LinkedStudentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		if linked == nil || linked.Role != model.RoleStudent {
			return nil, validation.NewError("linkedStudentId", "student not found")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	lang := req.Language
	if lang == "" {
		lang = model.LangEnglish
	}
	user := &model.User{
		ID:              uuid.New().String(),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:    string(hash),
		FullName:        req.FullName,
		Role:            req.Role,
		Grade:           req.Grade,
		Language:        lang,
		Phone:           req.Phone,
		LinkedStudentID: req.LinkedStudentID,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if linked != nil {
		if err := s.userRepo.LinkParent(ctx, linked.ID, user.ID); err != nil {
			slog.Warn("failed to link parent to student", "parentId", user.ID, "studentId", linked.ID, "error", err)
		}
	}

	slog.Info("user registered", "userId", user.ID, "role", user.Role)
	return s.issue(user)
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return user, nil
}

func (s *AuthService) issue(user *model.User) (*model.LoginResponse, error) {
	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, User: user}, nil
}

// GenerateToken signs a token for the user, valid for seven days
func (s *AuthService) GenerateToken(userID string, role model.Role) (string, error) {
	now := s.now()
	claims := &model.UserClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifies a token and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
