package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/ssp-go-api/internal/auth"
	"github.com/noah-isme/ssp-go-api/internal/models"
	"github.com/noah-isme/ssp-go-api/internal/repository"
)

// studentResolver turns principals and roll numbers into student profiles.
type studentResolver struct {
	profiles repository.StudentProfileRepository
}

// own returns the profile of a student principal.
func (r studentResolver) own(ctx context.Context, principal auth.Principal) (models.StudentProfile, error) {
	profile, err := r.profiles.GetByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrProfileNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}

// byRoll resolves a roll number.
func (r studentResolver) byRoll(ctx context.Context, rollNumber string) (models.StudentProfile, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return models.StudentProfile{}, ErrStudentNotFound
	}
	profile, err := r.profiles.GetByRollNumber(ctx, rollNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.StudentProfile{}, ErrStudentNotFound
		}
		return models.StudentProfile{}, err
	}
	return profile, nil
}

// listScope decides which student a listing is restricted to. Students are
// pinned to their own profile whatever they ask for; staff may narrow by roll
// number. A nil result means every student.
func (r studentResolver) listScope(ctx context.Context, principal auth.Principal, rollNumber string) (*uint, error) {
	if principal.IsStudent() {
		profile, err := r.own(ctx, principal)
		if err != nil {
			return nil, err
		}
		return &profile.ID, nil
	}
	if strings.TrimSpace(rollNumber) == "" {
		return nil, nil
	}
	profile, err := r.byRoll(ctx, rollNumber)
	if err != nil {
		return nil, err
	}
	return &profile.ID, nil
}

// requireDepartment allows admins and staff of the owning department.
func requireDepartment(principal auth.Principal, department models.Department) error {
	if !principal.CanManage(department) {
		return ErrForbidden
	}
	return nil
}

// requireReader allows the owning student (enforced by listScope), staff of the
// owning department and admins.
func requireReader(principal auth.Principal, department models.Department) error {
	if principal.IsStudent() {
		return nil
	}
	return requireDepartment(principal, department)
}

func actorOf(principal auth.Principal) ActivityActor {
	return ActivityActor{ID: principal.UserID, Role: string(principal.Role), Department: string(principal.Department)}
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
