package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type fakeCourseRepo struct {
	repository.CourseRepository
	openPair     *model.Course
	createdWeeks []model.CourseWeek
	course       *model.Course
	weeks        []model.CourseWeek
	updatedWeek  *model.CourseWeek
}

func (f *fakeCourseRepo) FindActivePair(ctx context.Context, userA, userB uuid.UUID, statuses []string) (*model.Course, error) {
	return f.openPair, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return f.course, nil
}

func (f *fakeCourseRepo) Weeks(ctx context.Context, courseID uuid.UUID) ([]model.CourseWeek, error) {
	return f.weeks, nil
}

func (f *fakeCourseRepo) UpdateWeek(ctx context.Context, week *model.CourseWeek) error {
	f.updatedWeek = week
	return nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *model.Course, weeks []model.CourseWeek) (*model.Course, error) {
	course.ID = uuid.New()
	f.createdWeeks = weeks
	return course, nil
}

func proposal(exchange string) *model.Course {
	return &model.Course{
		Title:         "Go for Piano",
		UserAID:       uuid.New(),
		UserBID:       uuid.New(),
		DurationWeeks: 4,
		ExchangeType:  exchange,
		SkillA:        "Go",
		SkillB:        "Piano",
	}
}

func TestProposeCourse_MutualBuildsBothSides(t *testing.T) {
	courseRepo := &fakeCourseRepo{}
	course := proposal(model.ExchangeMutual)
	svc := service.NewCourseService(courseRepo,
		&fakeUserRepo{existing: map[uuid.UUID]bool{course.UserBID: true}}, &fakePublisher{})

	created, err := svc.ProposeCourse(context.Background(), course)
	require.NoError(t, err)
	require.Equal(t, model.CourseStatusPending, created.Status)
	require.Equal(t, created.UserAID, created.ProposedBy)

	require.Len(t, courseRepo.createdWeeks, 8)
	sides := map[string]int{}
	for _, w := range courseRepo.createdWeeks {
		sides[w.Side]++
	}
	require.Equal(t, 4, sides[model.CourseSideA])
	require.Equal(t, 4, sides[model.CourseSideB])
}

func TestProposeCourse_OneWayBuildsRecipientSideOnly(t *testing.T) {
	courseRepo := &fakeCourseRepo{}
	course := proposal(model.ExchangeOneWay)
	svc := service.NewCourseService(courseRepo,
		&fakeUserRepo{existing: map[uuid.UUID]bool{course.UserBID: true}}, &fakePublisher{})

	_, err := svc.ProposeCourse(context.Background(), course)
	require.NoError(t, err)

	require.Len(t, courseRepo.createdWeeks, 4)
	for _, w := range courseRepo.createdWeeks {
		require.Equal(t, model.CourseSideB, w.Side)
	}
}

func TestProposeCourse_Rejections(t *testing.T) {
	t.Run("invalid exchange", func(t *testing.T) {
		svc := service.NewCourseService(&fakeCourseRepo{}, &fakeUserRepo{}, &fakePublisher{})
		_, err := svc.ProposeCourse(context.Background(), proposal("barter"))
		require.ErrorIs(t, err, service.ErrInvalidExchange)
	})

	t.Run("self proposal", func(t *testing.T) {
		svc := service.NewCourseService(&fakeCourseRepo{}, &fakeUserRepo{}, &fakePublisher{})
		course := proposal(model.ExchangeMutual)
		course.UserBID = course.UserAID
		_, err := svc.ProposeCourse(context.Background(), course)
		require.ErrorIs(t, err, service.ErrSelfProposal)
	})

	t.Run("open pair exists", func(t *testing.T) {
		course := proposal(model.ExchangeMutual)
		svc := service.NewCourseService(&fakeCourseRepo{openPair: &model.Course{}},
			&fakeUserRepo{existing: map[uuid.UUID]bool{course.UserBID: true}}, &fakePublisher{})
		_, err := svc.ProposeCourse(context.Background(), course)
		require.ErrorIs(t, err, service.ErrCourseExists)
	})
}

func weeksFor(courseID uuid.UUID, side string, total, done int) []model.CourseWeek {
	weeks := make([]model.CourseWeek, 0, total)
	for i := 1; i <= total; i++ {
		weeks = append(weeks, model.CourseWeek{
			CourseID:  courseID,
			Side:      side,
			Week:      i,
			Completed: i <= done,
		})
	}
	return weeks
}

func TestRecalculateProgress_Mutual(t *testing.T) {
	course := &model.Course{
		ID:           uuid.New(),
		Status:       model.CourseStatusActive,
		ExchangeType: model.ExchangeMutual,
	}
	// Side a half done, side b fully done. Side progress is what the OTHER
	// participant has completed for you.
	weeks := append(
		weeksFor(course.ID, model.CourseSideA, 4, 2),
		weeksFor(course.ID, model.CourseSideB, 4, 4)...)

	update := service.RecalculateProgress(course, weeks)
	require.Equal(t, 100, update.ProgressA)
	require.Equal(t, 50, update.ProgressB)
	require.Equal(t, 75, update.Progress)
	require.Equal(t, model.CourseStatusActive, update.Status)
	require.False(t, update.CompletedAt.Valid)
}

func TestRecalculateProgress_OneWay(t *testing.T) {
	course := &model.Course{
		ID:           uuid.New(),
		Status:       model.CourseStatusActive,
		ExchangeType: model.ExchangeOneWay,
	}
	weeks := weeksFor(course.ID, model.CourseSideB, 4, 1)

	update := service.RecalculateProgress(course, weeks)
	require.Equal(t, 25, update.ProgressA)
	require.Equal(t, 0, update.ProgressB)
	require.Equal(t, 25, update.Progress)
}

func TestRecalculateProgress_CompletesCourse(t *testing.T) {
	course := &model.Course{
		ID:           uuid.New(),
		Status:       model.CourseStatusActive,
		ExchangeType: model.ExchangeMutual,
	}
	weeks := append(
		weeksFor(course.ID, model.CourseSideA, 3, 3),
		weeksFor(course.ID, model.CourseSideB, 3, 3)...)

	update := service.RecalculateProgress(course, weeks)
	require.Equal(t, 100, update.Progress)
	require.Equal(t, model.CourseStatusCompleted, update.Status)
	require.True(t, update.CompletedAt.Valid)
}

func TestRecalculateProgress_PendingNeverCompletes(t *testing.T) {
	course := &model.Course{
		ID:           uuid.New(),
		Status:       model.CourseStatusPending,
		ExchangeType: model.ExchangeOneWay,
	}
	weeks := weeksFor(course.ID, model.CourseSideB, 2, 2)

	update := service.RecalculateProgress(course, weeks)
	require.Equal(t, 100, update.Progress)
	require.Equal(t, model.CourseStatusPending, update.Status)
	require.False(t, update.CompletedAt.Valid)
}

// activeCourseFixture returns an in-flight mutual course with both week
// structures built.
func activeCourseFixture() (*fakeCourseRepo, *model.Course) {
	course := proposal(model.ExchangeMutual)
	course.ID = uuid.New()
	course.Status = model.CourseStatusActive
	weeks := append(
		weeksFor(course.ID, model.CourseSideA, 4, 0),
		weeksFor(course.ID, model.CourseSideB, 4, 0)...)
	return &fakeCourseRepo{course: course, weeks: weeks}, course
}

func TestAddWeekContent_AppendsToOwnSide(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	// User A teaches side a.
	row, err := svc.AddWeekContent(context.Background(), course.ID, course.UserAID,
		model.CourseSideA, 2, model.ContentItem{Type: "file", Title: "Slides", FileURL: "https://x/slides.pdf"})
	require.NoError(t, err)
	require.Len(t, row.Content, 1)
	require.NotEmpty(t, row.Content[0].ID)
	require.Equal(t, &course.UserAID, row.Content[0].UploadedBy)
	require.Same(t, row, courseRepo.updatedWeek)
}

func TestAddWeekContent_WrongSide(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	// User A does not teach side b, so editing its content is forbidden.
	_, err := svc.AddWeekContent(context.Background(), course.ID, course.UserAID,
		model.CourseSideB, 2, model.ContentItem{Type: "file", Title: "Slides"})
	require.ErrorIs(t, err, service.ErrWrongSide)
	require.Nil(t, courseRepo.updatedWeek)
}

func TestAddWeekContent_OneWayProposerTeachesNothing(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	course.ExchangeType = model.ExchangeOneWay
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	_, err := svc.AddWeekContent(context.Background(), course.ID, course.UserAID,
		model.CourseSideA, 1, model.ContentItem{Type: "file", Title: "Slides"})
	require.ErrorIs(t, err, service.ErrWrongSide)
}

func TestUpdateWeek_EditsTitleAndDescription(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	row, err := svc.UpdateWeek(context.Background(), course.ID, course.UserBID,
		model.CourseSideB, 3, "Chords", "Open chords and transitions")
	require.NoError(t, err)
	require.Equal(t, "Chords", row.Title)
	require.Equal(t, "Open chords and transitions", row.Description)
	require.Same(t, row, courseRepo.updatedWeek)
}

func TestUpdateWeek_NotParticipant(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	_, err := svc.UpdateWeek(context.Background(), course.ID, uuid.New(),
		model.CourseSideA, 1, "x", "")
	require.ErrorIs(t, err, service.ErrNotParticipant)
}

func TestRemoveWeekContent(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	courseRepo.weeks[0].Content = model.ContentItems{
		{ID: "keep", Type: "file", Title: "Notes"},
		{ID: "drop", Type: "file", Title: "Draft"},
	}
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	row, err := svc.RemoveWeekContent(context.Background(), course.ID, course.UserAID,
		model.CourseSideA, 1, "drop")
	require.NoError(t, err)
	require.Len(t, row.Content, 1)
	require.Equal(t, "keep", row.Content[0].ID)

	_, err = svc.RemoveWeekContent(context.Background(), course.ID, course.UserAID,
		model.CourseSideA, 1, "gone")
	require.ErrorIs(t, err, service.ErrContentNotFound)
}

func TestCourseStats(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	course.StartDate = &start
	courseRepo.weeks = append(
		weeksFor(course.ID, model.CourseSideA, 4, 3),
		weeksFor(course.ID, model.CourseSideB, 4, 1)...)
	courseRepo.weeks[0].Content = model.ContentItems{{ID: "1"}, {ID: "2"}}

	stats, err := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{}).
		Stats(context.Background(), course.ID, course.UserAID)
	require.NoError(t, err)
	require.Equal(t, 4, stats.TotalWeeks)
	require.Equal(t, 3, stats.SideA.CompletedWeeks)
	require.Equal(t, 2, stats.SideA.ContentCount)
	require.Equal(t, 1, stats.SideB.CompletedWeeks)
	require.Equal(t, 0, stats.SideB.ContentCount)
	require.Equal(t, start.AddDate(0, 0, 28), *stats.EstimatedEndDate)
}

func TestCourseStats_NotParticipant(t *testing.T) {
	courseRepo, course := activeCourseFixture()
	svc := service.NewCourseService(courseRepo, &fakeUserRepo{}, &fakePublisher{})

	_, err := svc.Stats(context.Background(), course.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrNotParticipant)
}
