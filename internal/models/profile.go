package models

import "time"

// StudentProfile extends a student user with admission details.
type StudentProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	RollNumber  string    `gorm:"size:50;uniqueIndex;not null" json:"roll_number"`
	CourseName  string    `gorm:"size:150;index" json:"course"`
	Caste       string    `gorm:"size:10" json:"caste"`
	Gender      string    `gorm:"size:10" json:"gender"`
	PhoneNumber string    `gorm:"size:15" json:"phone_number"`
	Batch       string    `gorm:"size:10" json:"batch"`
	YearOfStudy string    `gorm:"size:10" json:"year_of_study"`
	IsHostel    bool      `gorm:"not null;default:false" json:"is_hostel"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}

// StaffProfile extends a staff user with the department they serve.
type StaffProfile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Department  Department `gorm:"size:20;not null;index" json:"department"`
	Designation string     `gorm:"size:50" json:"designation"`
	Gender      string     `gorm:"size:10" json:"gender"`
	PhoneNumber string     `gorm:"size:15" json:"phone_number"`
	JoinDate    time.Time  `gorm:"not null" json:"join_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}
