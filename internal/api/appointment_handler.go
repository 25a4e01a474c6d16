package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type AppointmentHandler struct {
	apptService service.AppointmentService
	validate    *validator.Validate
}

func NewAppointmentHandler(apptService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		apptService: apptService,
		validate:    validator.New(),
	}
}

type BookAppointmentRequest struct {
	TeacherID  uuid.UUID  `json:"teacher_id" validate:"required"`
	Date       time.Time  `json:"date" validate:"required"`
	Time       string     `json:"time" validate:"required"`
	CourseID   *uuid.UUID `json:"course_id"`
	CourseWeek *int       `json:"course_week"`
}

func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request BookAppointmentRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	appt := &model.Appointment{
		TeacherID:  request.TeacherID,
		StudentID:  userID,
		Date:       request.Date,
		TimeOfDay:  request.Time,
		CourseID:   request.CourseID,
		CourseWeek: request.CourseWeek,
	}

	booked, err := h.apptService.BookAppointment(c.Context(), appt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfBooking), errors.Is(err, service.ErrInvalidTime):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrTeacherNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Time slot already booked"})
		case errors.Is(err, repository.ErrInsufficientCredit):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "Insufficient credits"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(booked)
}

func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	appt, err := h.apptService.GetAppointment(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	var teacherID, studentID *uuid.UUID

	if raw := c.Query("teacher_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher_id"})
		}
		teacherID = &id
	}
	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student_id"})
		}
		studentID = &id
	}

	appts, err := h.apptService.ListAppointments(c.Context(), teacherID, studentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"appointments": appts})
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	var request UpdateStatusRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	appt, err := h.apptService.UpdateStatus(c.Context(), id, request.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrAppointmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(appt)
}

type RescheduleRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Time      string    `json:"time" validate:"required"`
}

func (h *AppointmentHandler) Reschedule(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	var request RescheduleRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	appt, err := h.apptService.Reschedule(c.Context(), id, repository.RescheduleParams{
		TeacherID: request.TeacherID,
		Date:      request.Date,
		TimeOfDay: request.Time,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTime):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrAppointmentNotFound), errors.Is(err, service.ErrTeacherNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrSlotTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Time slot already booked"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(appt)
}

func (h *AppointmentHandler) NextSession(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	appt, err := h.apptService.NextSession(c.Context(), userID, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"session": appt})
}

func (h *AppointmentHandler) ActiveSession(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	appt, err := h.apptService.ActiveSession(c.Context(), userID, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"session": appt})
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	if err := h.apptService.DeleteAppointment(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrAppointmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Appointment not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Appointment deleted"})
}
