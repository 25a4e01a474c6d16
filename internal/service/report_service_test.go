package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type fakeReportRepo struct {
	repository.ReportRepository
	report *model.Report
}

func (f *fakeReportRepo) Create(ctx context.Context, report *model.Report) error {
	report.ID = uuid.New()
	report.Status = model.ReportStatusOpen
	f.report = report
	return nil
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	return f.report, nil
}

func (f *fakeReportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.report.Status = status
	return nil
}

func (f *fakeReportRepo) SetDefense(ctx context.Context, id uuid.UUID, defense string) error {
	f.report.Defense = &defense
	return nil
}

type fakeBanRepo struct {
	repository.UserRepository
	banned   map[uuid.UUID]bool
	existing map[uuid.UUID]bool
}

func (f *fakeBanRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.existing[id], nil
}

func (f *fakeBanRepo) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	f.banned[id] = banned
	return nil
}

func newReportFixture(t *testing.T) (service.ReportService, *fakeReportRepo, *fakeBanRepo, *model.Report) {
	t.Helper()
	reported := uuid.New()
	reportRepo := &fakeReportRepo{}
	users := &fakeBanRepo{banned: map[uuid.UUID]bool{}, existing: map[uuid.UUID]bool{reported: true}}
	svc := service.NewReportService(reportRepo, users)

	report, err := svc.FileReport(context.Background(), uuid.New(), reported, "no-show for three booked sessions")
	require.NoError(t, err)
	return svc, reportRepo, users, report
}

func TestFileReport_Rejections(t *testing.T) {
	svc := service.NewReportService(&fakeReportRepo{}, &fakeBanRepo{existing: map[uuid.UUID]bool{}})

	self := uuid.New()
	_, err := svc.FileReport(context.Background(), self, self, "reason")
	require.ErrorIs(t, err, service.ErrSelfReport)

	_, err = svc.FileReport(context.Background(), uuid.New(), uuid.New(), "")
	require.ErrorIs(t, err, service.ErrEmptyReason)

	_, err = svc.FileReport(context.Background(), uuid.New(), uuid.New(), "reason")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestSubmitDefense_OnlyReportedUser(t *testing.T) {
	svc, reportRepo, _, report := newReportFixture(t)

	err := svc.SubmitDefense(context.Background(), report.ID, uuid.New(), "was sick")
	require.ErrorIs(t, err, service.ErrNotReportedUser)

	require.NoError(t, svc.SubmitDefense(context.Background(), report.ID, report.ReportedID, "was sick"))
	require.NotNil(t, reportRepo.report.Defense)
}

func TestResolve_BanUser(t *testing.T) {
	svc, _, users, report := newReportFixture(t)

	resolved, err := svc.Resolve(context.Background(), report.ID, service.ResolveAction{BanUser: true})
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusResolved, resolved.Status)
	require.True(t, users.banned[report.ReportedID])

	// A closed report cannot be handled again.
	_, err = svc.Resolve(context.Background(), report.ID, service.ResolveAction{})
	require.ErrorIs(t, err, service.ErrReportClosed)
}

func TestResolve_DismissNeverBans(t *testing.T) {
	svc, _, users, report := newReportFixture(t)

	resolved, err := svc.Resolve(context.Background(), report.ID, service.ResolveAction{Dismiss: true, BanUser: true})
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusDismissed, resolved.Status)
	require.False(t, users.banned[report.ReportedID])
}
