package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "gradebook/internal/errors"
	"gradebook/internal/seed"
	"gradebook/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	studentService service.StudentService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(studentService service.StudentService) *SeedHandler {
	return &SeedHandler{studentService: studentService}
}

// SeedStudentsResponse represents the seed response.
type SeedStudentsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedStudents godoc
// @Summary Load the bundled demo roster
// @Tags seed
// @Produce json
// @Success 200 {object} SeedStudentsResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/students [get]
func (h *SeedHandler) SeedStudents(c echo.Context) error {
	count, err := h.studentService.Seed(c.Request().Context(), seed.DemoRoster())
	if err != nil {
		he := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, SeedStudentsResponse{
		Message: "Students seeded successfully",
		Count:   count,
	})
}
