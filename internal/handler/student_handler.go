package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "gradebook/internal/errors"
	"gradebook/internal/model"
	"gradebook/internal/service"
)

// StudentHandler handles student CRUD endpoints.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// CreateStudentRequest represents an add-student request.
type CreateStudentRequest struct {
	Name  string `json:"name" validate:"required"`
	Roll  string `json:"roll" validate:"required"`
	Grade string `json:"grade" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateStudentRequest represents a partial student update. Absent fields are
// left unchanged.
type UpdateStudentRequest struct {
	Name    *string `json:"name"`
	Roll    *string `json:"roll"`
	Grade   *string `json:"grade"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Remarks *string `json:"remarks"`
}

// MarksRequest represents a partial marks update. Absent fields are left
// unchanged, an explicit null erases the recorded score, and an explicit 0 is
// a recorded score.
type MarksRequest struct {
	Math    model.Optional[float64] `json:"math"`
	Science model.Optional[float64] `json:"science"`
	English model.Optional[float64] `json:"english"`
	Remarks model.Optional[string]  `json:"remarks"`
}

// checkScores rejects supplied scores outside the 0..100 scale. Validator
// tags cannot see inside the presence-tracking fields, so the range check
// lives here.
func (r *MarksRequest) checkScores() error {
	scores := map[string]model.Optional[float64]{
		"math":    r.Math,
		"science": r.Science,
		"english": r.English,
	}
	for name, score := range scores {
		if v, ok := score.Get(); ok && (v < 0 || v > 100) {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	return nil
}

// List godoc
// @Summary List all students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Student
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.studentService.List(c.Request().Context())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, students)
}

// Create godoc
// @Summary Add a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStudentRequest true "Student data"
// @Success 201 {object} model.Student
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var req CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.Create(c.Request().Context(), service.CreateStudentInput{
		Name:  req.Name,
		Roll:  req.Roll,
		Grade: req.Grade,
		Email: req.Email,
	})
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, student)
}

// Update godoc
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body UpdateStudentRequest true "Fields to update"
// @Success 200 {object} model.Student
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		he := apperrors.MapErrorToHTTP(apperrors.ErrStudentNotFound)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	var req UpdateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.Update(c.Request().Context(), id, service.UpdateStudentInput{
		Name:    req.Name,
		Roll:    req.Roll,
		Grade:   req.Grade,
		Email:   req.Email,
		Remarks: req.Remarks,
	})
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, student)
}

// Delete godoc
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		he := apperrors.MapErrorToHTTP(apperrors.ErrStudentNotFound)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	if err := h.studentService.Remove(c.Request().Context(), id); err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Deleted"})
}

// UpdateMarks godoc
// @Summary Add or update marks for a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body MarksRequest true "Marks to record"
// @Success 200 {object} model.Student
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/{id}/marks [put]
func (h *StudentHandler) UpdateMarks(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		he := apperrors.MapErrorToHTTP(apperrors.ErrStudentNotFound)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	var req MarksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := req.checkScores(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.UpdateMarks(c.Request().Context(), id, service.MarksInput{
		Math:    req.Math,
		Science: req.Science,
		English: req.English,
		Remarks: req.Remarks,
	})
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, student)
}
