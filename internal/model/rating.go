package model

import (
	"time"

	"github.com/google/uuid"
)

type Rating struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TeacherID     uuid.UUID `db:"teacher_id" json:"teacher_id"`
	StudentID     uuid.UUID `db:"student_id" json:"student_id"`
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Rating        int       `db:"rating" json:"rating"`
	Review        string    `db:"review" json:"review"`
	Reply         *string   `db:"reply" json:"reply,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type RatingDetails struct {
	Rating
	StudentName string `db:"student_name" json:"student_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
