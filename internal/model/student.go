package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scores holds the per-subject marks of a student. A nil pointer means the
// subject has not been recorded yet, which is distinct from an explicit 0.
type Scores struct {
	Math    *float64 `json:"math,omitempty" gorm:"column:score_math"`
	Science *float64 `json:"science,omitempty" gorm:"column:score_science"`
	English *float64 `json:"english,omitempty" gorm:"column:score_english"`
}

// Student represents a student record with optional subject scores.
type Student struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Roll      string    `json:"roll" gorm:"uniqueIndex;size:64;not null"`
	Grade     string    `json:"grade" gorm:"size:64;not null"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	Scores    Scores    `json:"scores" gorm:"embedded"`
	Remarks   string    `json:"remarks,omitempty" gorm:"size:1024"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// recorded returns the subject scores that have been recorded. An explicit 0
// counts as recorded; only a missing value does not.
func (sc Scores) recorded() []float64 {
	var out []float64
	for _, p := range []*float64{sc.Math, sc.Science, sc.English} {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// TotalMarks returns the sum of all recorded scores.
func (s *Student) TotalMarks() float64 {
	var total float64
	for _, v := range s.Scores.recorded() {
		total += v
	}
	return total
}

// AverageMarks returns the mean of the recorded scores, or 0 when no score
// has been recorded yet.
func (s *Student) AverageMarks() float64 {
	rec := s.Scores.recorded()
	if len(rec) == 0 {
		return 0
	}
	return s.TotalMarks() / float64(len(rec))
}

// HasMarks reports whether at least one subject score has been recorded.
func (s *Student) HasMarks() bool {
	return len(s.Scores.recorded()) > 0
}

// LetterGrade maps an average to a letter grade. Students with no recorded
// scores get "-" rather than an F.
func (s *Student) LetterGrade() string {
	if !s.HasMarks() {
		return "-"
	}
	return LetterGrade(s.AverageMarks())
}

// LetterGrade converts an average mark to its letter grade.
func LetterGrade(avg float64) string {
	switch {
	case avg >= 90:
		return "A+"
	case avg >= 80:
		return "A"
	case avg >= 70:
		return "B"
	case avg >= 60:
		return "C"
	case avg >= 50:
		return "D"
	default:
		return "F"
	}
}

// Float64 returns a pointer to v, for building score literals.
func Float64(v float64) *float64 {
	return &v
}
