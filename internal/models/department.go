package models

import "strings"

// Department is the organisational unit that bounds a staff member's visibility into dues.
type Department string

const (
	DepartmentAccounts Department = "accounts"
	DepartmentHostel   Department = "hostel"
	DepartmentLibrary  Department = "library"
	DepartmentLab      Department = "lab"
	DepartmentSports   Department = "sports"
)

// Departments lists every known department in display order.
var Departments = []Department{
	DepartmentAccounts,
	DepartmentHostel,
	DepartmentLibrary,
	DepartmentLab,
	DepartmentSports,
}

// Valid reports whether the department is one of the known values.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDepartment normalises user input into a Department. Legacy designations
// such as "accountant" or "hostel_superintendent" are accepted.
func ParseDepartment(value string) (Department, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "accountant":
		normalized = string(DepartmentAccounts)
	case "hostel_superintendent":
		normalized = string(DepartmentHostel)
	case "librarian":
		normalized = string(DepartmentLibrary)
	case "lab_incharge":
		normalized = string(DepartmentLab)
	case "sports_incharge":
		normalized = string(DepartmentSports)
	}
	department := Department(normalized)
	return department, department.Valid()
}
