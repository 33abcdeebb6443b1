package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gradebook/internal/cache"
	apperrors "gradebook/internal/errors"
	"gradebook/internal/model"
	"gradebook/internal/repository"
)

const (
	studentListCacheKey = "students:all"
	studentListCacheTTL = 5 * time.Minute
)

// CreateStudentInput carries the fields accepted when adding a student.
type CreateStudentInput struct {
	Name  string
	Roll  string
	Grade string
	Email string
}

// UpdateStudentInput carries a partial student update. Nil fields are left
// unchanged on the stored record.
type UpdateStudentInput struct {
	Name    *string
	Roll    *string
	Grade   *string
	Email   *string
	Remarks *string
}

// MarksInput carries a partial marks update. An absent field is left
// unchanged, an explicit null erases the recorded score, and an explicit zero
// is a recorded score.
type MarksInput struct {
	Math    model.Optional[float64]
	Science model.Optional[float64]
	English model.Optional[float64]
	Remarks model.Optional[string]
}

// StudentService exposes student CRUD and marks operations.
type StudentService interface {
	List(ctx context.Context) ([]model.Student, error)
	Create(ctx context.Context, input CreateStudentInput) (*model.Student, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStudentInput) (*model.Student, error)
	Remove(ctx context.Context, id uuid.UUID) error
	UpdateMarks(ctx context.Context, id uuid.UUID, input MarksInput) (*model.Student, error)
	Seed(ctx context.Context, students []model.Student) (int, error)
}

type studentService struct {
	repo  repository.StudentRepository
	cache *cache.Client
}

// NewStudentService builds a StudentService with repository and cache.
func NewStudentService(repo repository.StudentRepository, cache *cache.Client) StudentService {
	return &studentService{repo: repo, cache: cache}
}

// List returns all students, read through the cache. Order is the storage
// default, which in practice is insertion order.
func (s *studentService) List(ctx context.Context) ([]model.Student, error) {
	if data, _ := s.cache.Get(ctx, studentListCacheKey); data != nil {
		var cached []model.Student
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(students); err == nil {
		_ = s.cache.Set(ctx, studentListCacheKey, payload, studentListCacheTTL)
	}
	return students, nil
}

// Create validates required fields and rejects duplicate roll numbers without
// inserting anything.
func (s *studentService) Create(ctx context.Context, input CreateStudentInput) (*model.Student, error) {
	if input.Name == "" || input.Roll == "" || input.Grade == "" {
		return nil, apperrors.ErrMissingFields
	}

	existing, err := s.repo.FindByRoll(ctx, input.Roll)
	if err == nil && existing != nil {
		return nil, apperrors.ErrRollTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check roll existence: %w", err)
	}

	student := &model.Student{
		Name:  input.Name,
		Roll:  input.Roll,
		Grade: input.Grade,
		Email: input.Email,
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	_ = s.cache.Delete(ctx, studentListCacheKey)
	return student, nil
}

// Update overwrites only the supplied fields on the identified record.
func (s *studentService) Update(ctx context.Context, id uuid.UUID, input UpdateStudentInput) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	if input.Roll != nil && *input.Roll != student.Roll {
		other, err := s.repo.FindByRoll(ctx, *input.Roll)
		if err == nil && other != nil {
			return nil, apperrors.ErrRollTaken
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check roll existence: %w", err)
		}
		student.Roll = *input.Roll
	}
	if input.Name != nil {
		student.Name = *input.Name
	}
	if input.Grade != nil {
		student.Grade = *input.Grade
	}
	if input.Email != nil {
		student.Email = *input.Email
	}
	if input.Remarks != nil {
		student.Remarks = *input.Remarks
	}

	if err := s.repo.Save(ctx, student); err != nil {
		return nil, fmt.Errorf("save student: %w", err)
	}

	_ = s.cache.Delete(ctx, studentListCacheKey)
	return student, nil
}

// Remove deletes the record. Deleting an unknown or already-deleted id fails
// with the same not-found error every time.
func (s *studentService) Remove(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrStudentNotFound
	}

	_ = s.cache.Delete(ctx, studentListCacheKey)
	return nil
}

// UpdateMarks patches only the score and remarks fields the caller supplied.
// An explicit null erases a recorded score; an empty input is a no-op that
// returns the unmodified record.
func (s *studentService) UpdateMarks(ctx context.Context, id uuid.UUID, input MarksInput) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	if input.Math.IsSet() {
		student.Scores.Math = input.Math.Ptr()
	}
	if input.Science.IsSet() {
		student.Scores.Science = input.Science.Ptr()
	}
	if input.English.IsSet() {
		student.Scores.English = input.English.Ptr()
	}
	if input.Remarks.IsSet() {
		remarks, _ := input.Remarks.Get()
		student.Remarks = remarks
	}

	if err := s.repo.Save(ctx, student); err != nil {
		return nil, fmt.Errorf("save student: %w", err)
	}

	_ = s.cache.Delete(ctx, studentListCacheKey)
	return student, nil
}

// Seed inserts demo students, skipping roll numbers that already exist.
func (s *studentService) Seed(ctx context.Context, students []model.Student) (int, error) {
	count := 0
	for i := range students {
		if _, err := s.repo.FindByRoll(ctx, students[i].Roll); err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return count, fmt.Errorf("check roll existence: %w", err)
		}
		if err := s.repo.Create(ctx, &students[i]); err != nil {
			return count, fmt.Errorf("seed student %s: %w", students[i].Roll, err)
		}
		count++
	}
	if count > 0 {
		_ = s.cache.Delete(ctx, studentListCacheKey)
	}
	return count, nil
}
