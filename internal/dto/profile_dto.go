package dto

import (
	"time"

	"github.com/noah-isme/ssp-go-api/internal/models"
)

// ProfileResponse wraps the caller's profile with its kind.
type ProfileResponse struct {
	Type    string      `json:"type"`
	Profile interface{} `json:"profile"`
}

// StudentProfileResponse is the student view of a profile.
type StudentProfileResponse struct {
	ID          uint    `json:"id"`
	RollNumber  string  `json:"roll_number"`
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Course      string  `json:"course"`
	Caste       string  `json:"caste"`
	Gender      string  `json:"gender"`
	PhoneNumber string  `json:"phone_number"`
	Batch       string  `json:"batch"`
	YearOfStudy string  `json:"year_of_study"`
	IsHostel    bool    `json:"is_hostel"`
}

// NewStudentProfileResponse maps a profile with its preloaded user.
func NewStudentProfileResponse(profile models.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		ID:          profile.ID,
		RollNumber:  profile.RollNumber,
		Name:        profile.User.FullName(),
		Email:       profile.User.Email,
		Course:      profile.CourseName,
		Caste:       profile.Caste,
		Gender:      profile.Gender,
		PhoneNumber: profile.PhoneNumber,
		Batch:       profile.Batch,
		YearOfStudy: profile.YearOfStudy,
		IsHostel:    profile.IsHostel,
	}
}

// StaffProfileResponse is the staff view of a profile.
type StaffProfileResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	PhoneNumber string    `json:"phone_number"`
	JoinDate    time.Time `json:"join_date"`
	IsAdmin     bool      `json:"is_admin"`
}

// NewStaffProfileResponse maps a staff profile with its preloaded user.
func NewStaffProfileResponse(profile models.StaffProfile) StaffProfileResponse {
	return StaffProfileResponse{
		ID:          profile.ID,
		Name:        profile.User.FullName(),
		Email:       profile.User.Email,
		Department:  string(profile.Department),
		Designation: profile.Designation,
		Gender:      profile.Gender,
		PhoneNumber: profile.PhoneNumber,
		JoinDate:    profile.JoinDate,
		IsAdmin:     profile.User.IsSuperuser,
	}
}

// StudentSearchResult is one row of the student quick search.
type StudentSearchResult struct {
	RollNumber  string `json:"roll_number"`
	Name        string `json:"name"`
	Course      string `json:"course"`
	Caste       string `json:"caste"`
	PhoneNumber string `json:"phone_number"`
}

// NewStudentSearchResult maps a profile into a search row.
func NewStudentSearchResult(profile models.StudentProfile) StudentSearchResult {
	return StudentSearchResult{
		RollNumber:  profile.RollNumber,
		Name:        profile.User.FullName(),
		Course:      profile.CourseName,
		Caste:       profile.Caste,
		PhoneNumber: profile.PhoneNumber,
	}
}
