package api

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
}

func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validate:      validator.New(),
	}
}

type ProposeCourseRequest struct {
	Title         string    `json:"title" validate:"required,min=3"`
	Description   string    `json:"description"`
	RecipientID   uuid.UUID `json:"recipient_id" validate:"required"`
	DurationWeeks int       `json:"duration_weeks" validate:"required,min=1,max=52"`
	ExchangeType  string    `json:"exchange_type" validate:"required,oneof=mutual one-way"`
	SkillA        string    `json:"skill_a"`
	LevelA        string    `json:"level_a"`
	SkillB        string    `json:"skill_b" validate:"required"`
	LevelB        string    `json:"level_b"`
}

func (h *CourseHandler) Propose(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request ProposeCourseRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	course := &model.Course{
		Title:         request.Title,
		Description:   request.Description,
		UserAID:       userID,
		UserBID:       request.RecipientID,
		DurationWeeks: request.DurationWeeks,
		ExchangeType:  request.ExchangeType,
		SkillA:        request.SkillA,
		LevelA:        request.LevelA,
		SkillB:        request.SkillB,
		LevelB:        request.LevelB,
	}

	created, err := h.courseService.ProposeCourse(c.Context(), course)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExchange), errors.Is(err, service.ErrSelfProposal):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCourseExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	course, weeks, err := h.courseService.GetCourse(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"course": course, "weeks": weeks})
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return limit, (page - 1) * limit
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	limit, offset := pagination(c)
	courses, total, err := h.courseService.ListCourses(c.Context(), repository.CourseFilter{
		UserID: userID,
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"courses": courses, "total": total})
}

func (h *CourseHandler) ListProposals(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	limit, offset := pagination(c)
	proposals, total, err := h.courseService.ListProposals(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"proposals": proposals, "total": total})
}

func (h *CourseHandler) respond(c *fiber.Ctx, accept bool) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	course, err := h.courseService.RespondToProposal(c.Context(), courseID, userID, accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		case errors.Is(err, service.ErrNotProposalOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCourseNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(course)
}

func (h *CourseHandler) Accept(c *fiber.Ctx) error {
	return h.respond(c, true)
}

func (h *CourseHandler) Reject(c *fiber.Ctx) error {
	return h.respond(c, false)
}

func (h *CourseHandler) Cancel(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	course, err := h.courseService.CancelCourse(c.Context(), courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		case errors.Is(err, service.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCourseNotOpen):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(course)
}

// weekParams pulls the addressed week and teaching side out of the path.
func weekParams(c *fiber.Ctx) (uuid.UUID, int, string, error) {
	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, 0, "", errors.New("Invalid course ID")
	}
	week, err := c.ParamsInt("week")
	if err != nil || week < 1 {
		return uuid.Nil, 0, "", errors.New("Invalid week number")
	}
	side := c.Params("side")
	if side != model.CourseSideA && side != model.CourseSideB {
		return uuid.Nil, 0, "", errors.New("Invalid course side")
	}
	return courseID, week, side, nil
}

func weekError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	case errors.Is(err, service.ErrContentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Content item not found"})
	case errors.Is(err, service.ErrNotParticipant), errors.Is(err, service.ErrWrongSide):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrCourseNotOpen), errors.Is(err, service.ErrInvalidWeek):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func (h *CourseHandler) CompleteWeek(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, week, side, err := weekParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course, err := h.courseService.MarkWeekCompleted(c.Context(), courseID, userID, side, week)
	if err != nil {
		return weekError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"week":     week,
		"progress": course.Progress,
		"status":   course.Status,
	})
}

type UpdateWeekRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *CourseHandler) UpdateWeek(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, week, side, err := weekParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request UpdateWeekRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	row, err := h.courseService.UpdateWeek(c.Context(), courseID, userID, side, week, request.Title, request.Description)
	if err != nil {
		return weekError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(row)
}

type AddWeekContentRequest struct {
	Type          string     `json:"type" validate:"required,oneof=file appointment"`
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	FileURL       string     `json:"file_url"`
	FileType      string     `json:"file_type"`
	Size          string     `json:"size"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
}

func (h *CourseHandler) AddWeekContent(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, week, side, err := weekParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var request AddWeekContentRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	row, err := h.courseService.AddWeekContent(c.Context(), courseID, userID, side, week, model.ContentItem{
		Type:          request.Type,
		Title:         request.Title,
		Description:   request.Description,
		FileURL:       request.FileURL,
		FileType:      request.FileType,
		Size:          request.Size,
		AppointmentID: request.AppointmentID,
		Date:          request.Date,
		Time:          request.Time,
	})
	if err != nil {
		return weekError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(row)
}

func (h *CourseHandler) DeleteWeekContent(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, week, side, err := weekParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	row, err := h.courseService.RemoveWeekContent(c.Context(), courseID, userID, side, week, c.Params("contentId"))
	if err != nil {
		return weekError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(row)
}

func (h *CourseHandler) Stats(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	courseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID"})
	}

	stats, err := h.courseService.Stats(c.Context(), courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
		case errors.Is(err, service.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
