package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CourseStatusPending   = "pending"
	CourseStatusActive    = "active"
	CourseStatusCompleted = "completed"
	CourseStatusRejected  = "rejected"
	CourseStatusCancelled = "cancelled"
)

const (
	ExchangeMutual = "mutual"
	ExchangeOneWay = "one-way"
)

const (
	// CourseSideA is the proposer's teaching structure; empty for one-way courses
	// where the proposer only learns.
	CourseSideA = "a"
	CourseSideB = "b"
)

type Course struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	UserAID       uuid.UUID  `db:"user_a_id" json:"user_a_id"`
	UserBID       uuid.UUID  `db:"user_b_id" json:"user_b_id"`
	Status        string     `db:"status" json:"status"`
	DurationWeeks int        `db:"duration_weeks" json:"duration_weeks"`
	ExchangeType  string     `db:"exchange_type" json:"exchange_type"`
	SkillA        string     `db:"skill_a" json:"skill_a"`
	LevelA        string     `db:"level_a" json:"level_a"`
	SkillB        string     `db:"skill_b" json:"skill_b"`
	LevelB        string     `db:"level_b" json:"level_b"`
	ProgressA     int        `db:"progress_a" json:"progress_a"`
	ProgressB     int        `db:"progress_b" json:"progress_b"`
	Progress      int        `db:"progress" json:"progress"`
	ProposedBy    uuid.UUID  `db:"proposed_by" json:"proposed_by"`
	ProposedAt    time.Time  `db:"proposed_at" json:"proposed_at"`
	AcceptedAt    *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	StartDate     *time.Time `db:"start_date" json:"start_date,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (c *Course) OneWay() bool {
	return c.ExchangeType == ExchangeOneWay
}

// ContentItem is a material or scheduled-appointment entry attached to a week.
type ContentItem struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	FileURL       string     `json:"file_url,omitempty"`
	FileType      string     `json:"file_type,omitempty"`
	Size          string     `json:"size,omitempty"`
	UploadedBy    *uuid.UUID `json:"uploaded_by,omitempty"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Date          string     `json:"date,omitempty"`
	Time          string     `json:"time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ContentItems []ContentItem

func (c ContentItems) Value() (driver.Value, error) {
	if c == nil {
		return json.Marshal([]ContentItem{})
	}
	return json.Marshal(c)
}

func (c *ContentItems) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = nil
		return nil
	}
	return errors.New("unsupported source type for ContentItems")
}

type CourseWeek struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	CourseID    uuid.UUID    `db:"course_id" json:"course_id"`
	Side        string       `db:"side" json:"side"`
	Week        int          `db:"week" json:"week"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Content     ContentItems `db:"content" json:"content"`
	Completed   bool         `db:"completed" json:"completed"`
}

// BuildWeeklyStructure returns the ordered week rows for one teaching side,
// one entry per week of the course duration.
func BuildWeeklyStructure(courseID uuid.UUID, side, skill string, duration int) []CourseWeek {
	weeks := make([]CourseWeek, 0, duration)
	for i := 1; i <= duration; i++ {
		weeks = append(weeks, CourseWeek{
			CourseID: courseID,
			Side:     side,
			Week:     i,
			Title:    fmt.Sprintf("Week %d - %s", i, skill),
		})
	}
	return weeks
}
