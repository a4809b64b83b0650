package service

import (
	"context"
	"fmt"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
)

// Caller is the authenticated identity behind a request
type Caller struct {
	ID   string
	Role model.Role
}

// AccessPolicy decides who may read a student's results
type AccessPolicy struct {
	userRepo repository.UserRepo
}

func NewAccessPolicy(userRepo repository.UserRepo) *AccessPolicy {
	return &AccessPolicy{userRepo: userRepo}
}

// CanViewStudent allows the student, their linked parent, teachers and admins
func (p *AccessPolicy) CanViewStudent(ctx context.Context, caller Caller, studentID string) error {
	if caller.Role.IsStaff() {
		return nil
	}
	if caller.Role == model.RoleStudent && caller.ID == studentID {
		return nil
	}
	if caller.Role != model.RoleParent {
		return ErrUnauthorized
	}

	parent, err := p.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return fmt.Errorf("failed to get parent: %w", err)
	}
	if parent != nil && parent.LinkedStudentID == studentID {
		return nil
	}

	student, err := p.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student != nil && student.ParentID == caller.ID {
		return nil
	}
	return ErrUnauthorized
}
