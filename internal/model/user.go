package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultSignupCredits = 3

type DayAvailability struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Off   bool   `json:"off"`
}

// Availability holds one entry per weekday, keyed by day name.
type Availability map[string]DayAvailability

func DefaultAvailability() Availability {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	a := make(Availability, len(days))
	for _, d := range days {
		a[d] = DayAvailability{Start: "09:00", End: "17:00", Off: false}
	}
	return a
}

func (a Availability) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Availability) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	}
	return errors.New("unsupported source type for Availability")
}

// SkillList is stored as a JSONB array.
type SkillList []string

func (s SkillList) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(s)
}

func (s *SkillList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("unsupported source type for SkillList")
}

type User struct {
	ID             uuid.UUID    `db:"id"`
	Email          string       `db:"email"`
	PasswordHash   string       `db:"password_hash"`
	FullName       string       `db:"full_name"`
	AvatarURL      *string      `db:"avatar_url"`
	Role           string       `db:"role"`
	Banned         bool         `db:"banned"`
	Balance        float64      `db:"balance"`
	Credits        int          `db:"credits"`
	Availability   Availability `db:"availability"`
	TeachingSkills SkillList    `db:"teaching_skills"`
	LearningSkills SkillList    `db:"learning_skills"`
	AverageRating  float64      `db:"average_rating"`
	RatingCount    int          `db:"rating_count"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}
