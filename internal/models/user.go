package models

import (
	"errors"
	"strings"
	"time"
)

// ErrAmbiguousRole indicates a user carries both or neither of the student and staff flags.
var ErrAmbiguousRole = errors.New("user role is ambiguous")

// Role identifies the kind of principal a user authenticates as.
type Role string

const (
	// RoleStudent is a student authenticated by roll number.
	RoleStudent Role = "student"
	// RoleStaff is a departmental staff member authenticated by email.
	RoleStaff Role = "staff"
	// RoleAdmin is a superuser staff member that bypasses department scoping.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role belongs to a staff account (admins included).
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is the single identity record shared by students and staff.
// Login holds the roll number for students and the email for staff.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Login        string    `gorm:"size:150;uniqueIndex;not null" json:"login"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email"`
	IsStudent    bool      `gorm:"not null;default:false" json:"is_student"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role resolves the account role from its flags. Exactly one of IsStudent and
// IsStaff must be set for the account to be usable.
func (u User) Role() (Role, error) {
	switch {
	case u.IsStudent && !u.IsStaff:
		return RoleStudent, nil
	case u.IsStaff && !u.IsStudent:
		if u.IsSuperuser {
			return RoleAdmin, nil
		}
		return RoleStaff, nil
	default:
		return "", ErrAmbiguousRole
	}
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
