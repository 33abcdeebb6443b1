package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "gradebook/internal/errors"
	"gradebook/internal/model"
)

// MockStudentRepository is a mock implementation of StudentRepository.
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Save(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByRoll(ctx context.Context, roll string) (*model.Student, error) {
	args := m.Called(ctx, roll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestStudentService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         CreateStudentInput
		setupMock     func(*MockStudentRepository)
		expectedError error
	}{
		{
			name:  "successful create",
			input: CreateStudentInput{Name: "S", Roll: "1", Grade: "10th"},
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRoll", mock.Anything, "1").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Student")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:  "duplicate roll does not insert",
			input: CreateStudentInput{Name: "S2", Roll: "1", Grade: "10th"},
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRoll", mock.Anything, "1").Return(&model.Student{Roll: "1"}, nil)
				// No Create expectation: no second record may appear.
			},
			expectedError: apperrors.ErrRollTaken,
		},
		{
			name:          "missing required field",
			input:         CreateStudentInput{Name: "S", Grade: "10th"},
			setupMock:     func(m *MockStudentRepository) {},
			expectedError: apperrors.ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockStudentRepository)
			tt.setupMock(mockRepo)

			service := NewStudentService(mockRepo, nil)
			student, err := service.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, student)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, student)
				assert.Equal(t, tt.input.Name, student.Name)
				assert.Equal(t, tt.input.Roll, student.Roll)
				assert.False(t, student.HasMarks())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestStudentService_UpdateMarksPatchesOnlySuppliedFields(t *testing.T) {
	id := uuid.New()
	stored := &model.Student{
		ID:    id,
		Name:  "S",
		Roll:  "1",
		Grade: "10th",
		Scores: model.Scores{
			Science: model.Float64(70),
			English: model.Float64(60),
		},
		Remarks: "keep me",
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)

	service := NewStudentService(mockRepo, nil)

	updated, err := service.UpdateMarks(context.Background(), id, MarksInput{Math: model.Some(90.0)})

	assert.NoError(t, err)
	assert.Equal(t, 90.0, *updated.Scores.Math)
	assert.Equal(t, 70.0, *updated.Scores.Science)
	assert.Equal(t, 60.0, *updated.Scores.English)
	assert.Equal(t, "keep me", updated.Remarks)
	mockRepo.AssertExpectations(t)
}

func TestStudentService_UpdateMarksNullErasesScore(t *testing.T) {
	id := uuid.New()
	stored := &model.Student{
		ID:    id,
		Name:  "S",
		Roll:  "1",
		Grade: "10th",
		Scores: model.Scores{
			Math:    model.Float64(90),
			Science: model.Float64(70),
		},
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)

	service := NewStudentService(mockRepo, nil)

	// Null erases math; absent science stays recorded.
	updated, err := service.UpdateMarks(context.Background(), id, MarksInput{Math: model.Null[float64]()})

	assert.NoError(t, err)
	assert.Nil(t, updated.Scores.Math)
	assert.Equal(t, 70.0, *updated.Scores.Science)
	assert.Equal(t, 70.0, updated.AverageMarks())
	mockRepo.AssertExpectations(t)
}

func TestStudentService_UpdateMarksEmptyInputIsNoOp(t *testing.T) {
	id := uuid.New()
	stored := &model.Student{
		ID:      id,
		Name:    "S",
		Roll:    "1",
		Grade:   "10th",
		Scores:  model.Scores{Math: model.Float64(55)},
		Remarks: "unchanged",
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)

	service := NewStudentService(mockRepo, nil)

	updated, err := service.UpdateMarks(context.Background(), id, MarksInput{})

	assert.NoError(t, err)
	assert.Equal(t, 55.0, *updated.Scores.Math)
	assert.Nil(t, updated.Scores.Science)
	assert.Nil(t, updated.Scores.English)
	assert.Equal(t, "unchanged", updated.Remarks)
}

func TestStudentService_UpdateMarksUnknownID(t *testing.T) {
	id := uuid.New()

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	service := NewStudentService(mockRepo, nil)

	_, err := service.UpdateMarks(context.Background(), id, MarksInput{Math: model.Some(90.0)})
	assert.Equal(t, apperrors.ErrStudentNotFound, err)
}

func TestStudentService_RemoveIsIdempotentlyNotFound(t *testing.T) {
	id := uuid.New()

	mockRepo := new(MockStudentRepository)
	mockRepo.On("Delete", mock.Anything, id).Return(int64(1), nil).Once()
	mockRepo.On("Delete", mock.Anything, id).Return(int64(0), nil)

	service := NewStudentService(mockRepo, nil)

	assert.NoError(t, service.Remove(context.Background(), id))
	assert.Equal(t, apperrors.ErrStudentNotFound, service.Remove(context.Background(), id))
	assert.Equal(t, apperrors.ErrStudentNotFound, service.Remove(context.Background(), id))
}

func TestStudentService_UpdateUnknownID(t *testing.T) {
	id := uuid.New()

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	service := NewStudentService(mockRepo, nil)

	name := "New Name"
	_, err := service.Update(context.Background(), id, UpdateStudentInput{Name: &name})
	assert.Equal(t, apperrors.ErrStudentNotFound, err)
}

func TestStudentService_UpdateChangesOnlySuppliedFields(t *testing.T) {
	id := uuid.New()
	stored := &model.Student{ID: id, Name: "Old", Roll: "1", Grade: "10th", Email: "old@example.com"}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)
	mockRepo.On("Save", mock.Anything, stored).Return(nil)

	service := NewStudentService(mockRepo, nil)

	name := "New"
	updated, err := service.Update(context.Background(), id, UpdateStudentInput{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "1", updated.Roll)
	assert.Equal(t, "old@example.com", updated.Email)
}
