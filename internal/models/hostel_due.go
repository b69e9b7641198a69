package models

import "time"

// HostelDue is one year of a student's hostel account.
type HostelDue struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	StudentProfileID uint           `gorm:"not null;uniqueIndex:idx_hostel_due_student_year" json:"student_profile_id"`
	YearOfStudy      string         `gorm:"size:2;not null;uniqueIndex:idx_hostel_due_student_year" json:"year_of_study"`
	MessBill         int64          `gorm:"not null;default:0" json:"mess_bill"`
	Scholarship      int64          `gorm:"not null;default:0" json:"scholarship"`
	Deposit          int64          `gorm:"not null;default:0" json:"deposit"`
	Remarks          string         `gorm:"type:text" json:"remarks"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	StudentProfile   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DueAmount computes mess_bill - scholarship - deposit for this row alone.
func (h HostelDue) DueAmount() int64 {
	return h.MessBill - h.Scholarship - h.Deposit
}

// HostelTotal sums a student's hostel rows while applying the one-time deposit
// exactly once: the deposit of the earliest year carrying one is used and any
// deposit repeated on later rows is ignored.
func HostelTotal(rows []HostelDue) int64 {
	var total int64
	var deposit int64
	depositYear := ""
	for _, row := range rows {
		total += row.MessBill - row.Scholarship
		if row.Deposit == 0 {
			continue
		}
		if depositYear == "" || yearLess(row.YearOfStudy, depositYear) {
			deposit = row.Deposit
			depositYear = row.YearOfStudy
		}
	}
	return total - deposit
}

func yearLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
