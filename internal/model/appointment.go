package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusOngoing   = "ongoing"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCanceled  = "canceled"
)

// SessionDuration is the fixed length of a booked session.
const SessionDuration = 60 * time.Minute

func ValidAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusOngoing,
		AppointmentStatusCompleted, AppointmentStatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TeacherID  uuid.UUID  `db:"teacher_id" json:"teacher_id"`
	StudentID  uuid.UUID  `db:"student_id" json:"student_id"`
	Date       time.Time  `db:"date" json:"date"`
	TimeOfDay  string     `db:"time_of_day" json:"time"`
	Status     string     `db:"status" json:"status"`
	CourseID   *uuid.UUID `db:"course_id" json:"course_id,omitempty"`
	CourseWeek *int       `db:"course_week" json:"course_week,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// StartTime combines the stored date with the "HH:MM" time-of-day string.
func (a *Appointment) StartTime() (time.Time, error) {
	parts := strings.Split(a.TimeOfDay, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", a.TimeOfDay)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", a.TimeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", a.TimeOfDay)
	}

	d := a.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location()), nil
}

// EndTime is StartTime plus the fixed session duration.
func (a *Appointment) EndTime() (time.Time, error) {
	start, err := a.StartTime()
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(SessionDuration), nil
}

// ActiveAt reports whether now falls inside the session window [start, start+duration].
func (a *Appointment) ActiveAt(now time.Time) bool {
	start, err := a.StartTime()
	if err != nil {
		return false
	}
	end := start.Add(SessionDuration)
	return !now.Before(start) && !now.After(end)
}

type AppointmentDetails struct {
	Appointment
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	StudentName string `db:"student_name" json:"student_name"`
}
