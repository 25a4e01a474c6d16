package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/repository"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrSelfReport      = errors.New("cannot report yourself")
	ErrReportClosed    = errors.New("report has already been handled")
	ErrNotReportedUser = errors.New("only the reported user can submit a defense")
	ErrEmptyReason     = errors.New("report reason is empty")
)

type ResolveAction struct {
	Dismiss bool
	BanUser bool
}

type ReportService interface {
	FileReport(ctx context.Context, reporterID, reportedID uuid.UUID, reason string) (*model.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error)
	ListReports(ctx context.Context, status string) ([]model.Report, error)
	SubmitDefense(ctx context.Context, reportID, userID uuid.UUID, defense string) error
	Resolve(ctx context.Context, reportID uuid.UUID, action ResolveAction) (*model.Report, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
}

func NewReportService(reportRepo repository.ReportRepository, userRepo repository.UserRepository) ReportService {
	return &reportService{reportRepo: reportRepo, userRepo: userRepo}
}

func (s *reportService) FileReport(ctx context.Context, reporterID, reportedID uuid.UUID, reason string) (*model.Report, error) {
	if reporterID == reportedID {
		return nil, ErrSelfReport
	}
	if reason == "" {
		return nil, ErrEmptyReason
	}

	exists, err := s.userRepo.Exists(ctx, reportedID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	report := &model.Report{
		ReporterID: reporterID,
		ReportedID: reportedID,
		Reason:     reason,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, status string) ([]model.Report, error) {
	return s.reportRepo.List(ctx, status)
}

func (s *reportService) SubmitDefense(ctx context.Context, reportID, userID uuid.UUID, defense string) error {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	if report.ReportedID != userID {
		return ErrNotReportedUser
	}
	if report.Status != model.ReportStatusOpen {
		return ErrReportClosed
	}
	return s.reportRepo.SetDefense(ctx, reportID, defense)
}

func (s *reportService) Resolve(ctx context.Context, reportID uuid.UUID, action ResolveAction) (*model.Report, error) {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != model.ReportStatusOpen {
		return nil, ErrReportClosed
	}

	status := model.ReportStatusResolved
	if action.Dismiss {
		status = model.ReportStatusDismissed
	}

	if action.BanUser && !action.Dismiss {
		if err := s.userRepo.SetBanned(ctx, report.ReportedID, true); err != nil {
			return nil, err
		}
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		return nil, err
	}

	report.Status = status
	return report, nil
}
