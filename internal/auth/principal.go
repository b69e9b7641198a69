package auth

import (
	"github.com/noah-isme/ssp-go-api/internal/models"
)

// Principal is the authenticated caller resolved once from token claims.
// Department is only set for staff and admins.
type Principal struct {
	UserID     uint
	Role       models.Role
	Department models.Department
}

// IsStudent reports whether the caller authenticated on the student path.
func (p Principal) IsStudent() bool {
	return p.Role == models.RoleStudent
}

// IsStaff reports whether the caller is staff, admins included.
func (p Principal) IsStaff() bool {
	return p.Role.IsStaff()
}

// IsAdmin reports whether the caller bypasses department scoping.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanManage reports whether the caller may read and write rows owned by department.
func (p Principal) CanManage(department models.Department) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleStaff && p.Department != "" && p.Department == department
}
