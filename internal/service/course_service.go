package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/events"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseExists     = errors.New("an open course already exists between these users")
	ErrNotParticipant   = errors.New("user is not a participant of this course")
	ErrNotProposalOwner = errors.New("only the proposal recipient can respond")
	ErrCourseNotPending = errors.New("course proposal is no longer pending")
	ErrCourseNotOpen    = errors.New("course is not pending or active")
	ErrInvalidExchange  = errors.New("invalid exchange type")
	ErrSelfProposal     = errors.New("cannot propose a course to yourself")
	ErrInvalidWeek      = errors.New("week is out of range for this course")
	ErrWrongSide        = errors.New("user does not teach this side of the course")
	ErrContentNotFound  = errors.New("content item not found")
)

type SideStats struct {
	CompletedWeeks int `json:"completed_weeks"`
	ContentCount   int `json:"content_count"`
}

// CourseStats summarizes one course's progress per teaching side. The
// estimated end date projects the duration forward from the start date and is
// absent while the proposal is still pending.
type CourseStats struct {
	TotalWeeks       int        `json:"total_weeks"`
	SideA            SideStats  `json:"side_a"`
	SideB            SideStats  `json:"side_b"`
	EstimatedEndDate *time.Time `json:"estimated_end_date,omitempty"`
}

type CourseService interface {
	ProposeCourse(ctx context.Context, course *model.Course) (*model.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, []model.CourseWeek, error)
	ListCourses(ctx context.Context, filter repository.CourseFilter) ([]model.Course, int, error)
	ListProposals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Course, int, error)
	RespondToProposal(ctx context.Context, courseID, userID uuid.UUID, accept bool) (*model.Course, error)
	CancelCourse(ctx context.Context, courseID, userID uuid.UUID) (*model.Course, error)
	MarkWeekCompleted(ctx context.Context, courseID, userID uuid.UUID, side string, week int) (*model.Course, error)
	// Week edits are side-authorized: only the participant teaching the
	// addressed side may change its title, description or content.
	UpdateWeek(ctx context.Context, courseID, userID uuid.UUID, side string, week int, title, description string) (*model.CourseWeek, error)
	AddWeekContent(ctx context.Context, courseID, userID uuid.UUID, side string, week int, item model.ContentItem) (*model.CourseWeek, error)
	RemoveWeekContent(ctx context.Context, courseID, userID uuid.UUID, side string, week int, contentID string) (*model.CourseWeek, error)
	Stats(ctx context.Context, courseID, userID uuid.UUID) (*CourseStats, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	publisher  events.EventPublisher
}

func NewCourseService(courseRepo repository.CourseRepository, userRepo repository.UserRepository, pub events.EventPublisher) CourseService {
	return &courseService{courseRepo: courseRepo, userRepo: userRepo, publisher: pub}
}

func (s *courseService) ProposeCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	if course.ExchangeType != model.ExchangeMutual && course.ExchangeType != model.ExchangeOneWay {
		return nil, ErrInvalidExchange
	}
	if course.UserAID == course.UserBID {
		return nil, ErrSelfProposal
	}

	exists, err := s.userRepo.Exists(ctx, course.UserBID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	open, err := s.courseRepo.FindActivePair(ctx, course.UserAID, course.UserBID,
		[]string{model.CourseStatusPending, model.CourseStatusActive})
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrCourseExists
	}

	course.Status = model.CourseStatusPending
	course.ProposedBy = course.UserAID

	var weeks []model.CourseWeek
	// One-way courses only carry the recipient's teaching structure; the
	// proposer has nothing to teach.
	if course.ExchangeType == model.ExchangeMutual {
		weeks = append(weeks, model.BuildWeeklyStructure(course.ID, model.CourseSideA, course.SkillA, course.DurationWeeks)...)
	}
	weeks = append(weeks, model.BuildWeeklyStructure(course.ID, model.CourseSideB, course.SkillB, course.DurationWeeks)...)

	return s.courseRepo.Create(ctx, course, weeks)
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, []model.CourseWeek, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, ErrCourseNotFound
	}

	weeks, err := s.courseRepo.Weeks(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return course, weeks, nil
}

func (s *courseService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]model.Course, int, error) {
	return s.courseRepo.List(ctx, filter)
}

func (s *courseService) ListProposals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Course, int, error) {
	return s.courseRepo.ListProposals(ctx, userID, limit, offset)
}

func (s *courseService) RespondToProposal(ctx context.Context, courseID, userID uuid.UUID, accept bool) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.UserBID != userID {
		return nil, ErrNotProposalOwner
	}
	if course.Status != model.CourseStatusPending {
		return nil, ErrCourseNotPending
	}

	now := time.Now()
	if accept {
		course.Status = model.CourseStatusActive
		course.AcceptedAt = &now
		course.StartDate = &now
	} else {
		course.Status = model.CourseStatusRejected
	}

	if err := s.courseRepo.UpdateStatus(ctx, course); err != nil {
		return nil, err
	}

	if accept {
		go s.publisher.PublishCourseAccepted(course)
	}

	return course, nil
}

func (s *courseService) CancelCourse(ctx context.Context, courseID, userID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.UserAID != userID && course.UserBID != userID {
		return nil, ErrNotParticipant
	}
	if course.Status != model.CourseStatusPending && course.Status != model.CourseStatusActive {
		return nil, ErrCourseNotOpen
	}

	course.Status = model.CourseStatusCancelled
	if err := s.courseRepo.UpdateStatus(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// teachingSide returns the side the user is responsible for teaching.
func teachingSide(course *model.Course, userID uuid.UUID) (string, bool) {
	switch userID {
	case course.UserAID:
		if course.OneWay() {
			return "", false
		}
		return model.CourseSideA, true
	case course.UserBID:
		return model.CourseSideB, true
	}
	return "", false
}

func (s *courseService) MarkWeekCompleted(ctx context.Context, courseID, userID uuid.UUID, side string, week int) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.UserAID != userID && course.UserBID != userID {
		return nil, ErrNotParticipant
	}
	if course.Status != model.CourseStatusActive {
		return nil, ErrCourseNotOpen
	}
	if week < 1 || week > course.DurationWeeks {
		return nil, ErrInvalidWeek
	}

	taught, ok := teachingSide(course, userID)
	if !ok || taught != side {
		return nil, ErrWrongSide
	}

	weeks, err := s.courseRepo.Weeks(ctx, courseID)
	if err != nil {
		return nil, err
	}

	for i := range weeks {
		if weeks[i].Side == side && weeks[i].Week == week {
			weeks[i].Completed = true
		}
	}

	update := RecalculateProgress(course, weeks)
	if err := s.courseRepo.SetWeekCompleted(ctx, courseID, side, week, update); err != nil {
		return nil, err
	}

	course.ProgressA = update.ProgressA
	course.ProgressB = update.ProgressB
	course.Progress = update.Progress
	course.Status = update.Status
	if update.CompletedAt.Valid {
		t := update.CompletedAt.Time
		course.CompletedAt = &t
	}

	return course, nil
}

// RecalculateProgress derives both per-user progress values and the overall
// course state from the completed flags alone, so repeated recomputation is
// idempotent. A user's progress measures what they have been taught, which is
// the completed share of the other participant's teaching side. One-way
// courses only have the recipient's side, so the proposer's progress tracks it
// and the recipient's stays at zero.
func RecalculateProgress(course *model.Course, weeks []model.CourseWeek) repository.ProgressUpdate {
	completedPct := func(side string) int {
		total, done := 0, 0
		for _, w := range weeks {
			if w.Side != side {
				continue
			}
			total++
			if w.Completed {
				done++
			}
		}
		if total == 0 {
			return 0
		}
		return done * 100 / total
	}

	update := repository.ProgressUpdate{Status: course.Status}

	if course.OneWay() {
		update.ProgressA = completedPct(model.CourseSideB)
		update.ProgressB = 0
		update.Progress = update.ProgressA
	} else {
		update.ProgressA = completedPct(model.CourseSideB)
		update.ProgressB = completedPct(model.CourseSideA)
		update.Progress = (update.ProgressA + update.ProgressB) / 2
	}

	if update.Progress >= 100 && course.Status == model.CourseStatusActive {
		update.Status = model.CourseStatusCompleted
		update.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
	} else if course.CompletedAt != nil {
		update.CompletedAt = sql.NullTime{Time: *course.CompletedAt, Valid: true}
	}

	return update
}

// weekForEdit loads the addressed week row after the same checks
// MarkWeekCompleted applies: the caller must be a participant, the course must
// be active, the week in range, and the caller must teach the addressed side.
func (s *courseService) weekForEdit(ctx context.Context, courseID, userID uuid.UUID, side string, week int) (*model.CourseWeek, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.UserAID != userID && course.UserBID != userID {
		return nil, ErrNotParticipant
	}
	if course.Status != model.CourseStatusActive {
		return nil, ErrCourseNotOpen
	}
	if week < 1 || week > course.DurationWeeks {
		return nil, ErrInvalidWeek
	}
	if taught, ok := teachingSide(course, userID); !ok || taught != side {
		return nil, ErrWrongSide
	}

	weeks, err := s.courseRepo.Weeks(ctx, courseID)
	if err != nil {
		return nil, err
	}
	for i := range weeks {
		if weeks[i].Side == side && weeks[i].Week == week {
			return &weeks[i], nil
		}
	}
	return nil, ErrInvalidWeek
}

func (s *courseService) UpdateWeek(ctx context.Context, courseID, userID uuid.UUID, side string, week int, title, description string) (*model.CourseWeek, error) {
	row, err := s.weekForEdit(ctx, courseID, userID, side, week)
	if err != nil {
		return nil, err
	}

	if title != "" {
		row.Title = title
	}
	if description != "" {
		row.Description = description
	}
	if err := s.courseRepo.UpdateWeek(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *courseService) AddWeekContent(ctx context.Context, courseID, userID uuid.UUID, side string, week int, item model.ContentItem) (*model.CourseWeek, error) {
	row, err := s.weekForEdit(ctx, courseID, userID, side, week)
	if err != nil {
		return nil, err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.UploadedBy = &userID

	row.Content = append(row.Content, item)
	if err := s.courseRepo.UpdateWeek(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *courseService) RemoveWeekContent(ctx context.Context, courseID, userID uuid.UUID, side string, week int, contentID string) (*model.CourseWeek, error) {
	row, err := s.weekForEdit(ctx, courseID, userID, side, week)
	if err != nil {
		return nil, err
	}

	kept := make(model.ContentItems, 0, len(row.Content))
	found := false
	for _, item := range row.Content {
		if item.ID == contentID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, ErrContentNotFound
	}

	row.Content = kept
	if err := s.courseRepo.UpdateWeek(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *courseService) Stats(ctx context.Context, courseID, userID uuid.UUID) (*CourseStats, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if course.UserAID != userID && course.UserBID != userID {
		return nil, ErrNotParticipant
	}

	weeks, err := s.courseRepo.Weeks(ctx, courseID)
	if err != nil {
		return nil, err
	}

	stats := &CourseStats{TotalWeeks: course.DurationWeeks}
	for _, w := range weeks {
		side := &stats.SideA
		if w.Side == model.CourseSideB {
			side = &stats.SideB
		}
		if w.Completed {
			side.CompletedWeeks++
		}
		side.ContentCount += len(w.Content)
	}

	if course.StartDate != nil {
		end := course.StartDate.AddDate(0, 0, course.DurationWeeks*7)
		stats.EstimatedEndDate = &end
	}

	return stats, nil
}
