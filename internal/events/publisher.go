package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

const (
	SubjectAppointmentCreated  = "appointment.created"
	SubjectAppointmentCanceled = "appointment.canceled"
	SubjectCourseAccepted      = "course.accepted"
	SubjectNotificationCreated = "notification.created"
)

type EventPublisher interface {
	PublishAppointmentCreated(appt *model.Appointment) error
	PublishAppointmentCanceled(appt *model.Appointment) error
	PublishCourseAccepted(course *model.Course) error
	PublishNotificationCreated(n *model.Notification) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type AppointmentEvent struct {
	EventType string    `json:"event_type"`
	ID        uuid.UUID `json:"appointment_id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	StudentID uuid.UUID `json:"student_id"`
	Date      time.Time `json:"date"`
	TimeOfDay string    `json:"time"`
	Status    string    `json:"status"`
}

type CourseAcceptedEvent struct {
	EventType string    `json:"event_type"`
	CourseID  uuid.UUID `json:"course_id"`
	UserAID   uuid.UUID `json:"user_a_id"`
	UserBID   uuid.UUID `json:"user_b_id"`
	Title     string    `json:"title"`
}

type NotificationCreatedEvent struct {
	EventType      string    `json:"event_type"`
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	FromID         uuid.UUID `json:"from_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		log.Printf("Error marshalling event JSON: %v", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		log.Printf("Error publishing to NATS: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishAppointmentCreated(appt *model.Appointment) error {
	return p.publish(SubjectAppointmentCreated, AppointmentEvent{
		EventType: SubjectAppointmentCreated,
		ID:        appt.ID,
		TeacherID: appt.TeacherID,
		StudentID: appt.StudentID,
		Date:      appt.Date,
		TimeOfDay: appt.TimeOfDay,
		Status:    appt.Status,
	})
}

func (p *NatsPublisher) PublishAppointmentCanceled(appt *model.Appointment) error {
	return p.publish(SubjectAppointmentCanceled, AppointmentEvent{
		EventType: SubjectAppointmentCanceled,
		ID:        appt.ID,
		TeacherID: appt.TeacherID,
		StudentID: appt.StudentID,
		Date:      appt.Date,
		TimeOfDay: appt.TimeOfDay,
		Status:    appt.Status,
	})
}

func (p *NatsPublisher) PublishCourseAccepted(course *model.Course) error {
	return p.publish(SubjectCourseAccepted, CourseAcceptedEvent{
		EventType: SubjectCourseAccepted,
		CourseID:  course.ID,
		UserAID:   course.UserAID,
		UserBID:   course.UserBID,
		Title:     course.Title,
	})
}

func (p *NatsPublisher) PublishNotificationCreated(n *model.Notification) error {
	return p.publish(SubjectNotificationCreated, NotificationCreatedEvent{
		EventType:      SubjectNotificationCreated,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		FromID:         n.FromID,
		Content:        n.Content,
		CreatedAt:      n.CreatedAt,
	})
}
