package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, status string) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetDefense(ctx context.Context, id uuid.UUID, defense string) error
}

type postgresReportRepository struct {
	db *sqlx.DB
}

func NewPostgresReportRepository(db *sqlx.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (reporter_id, reported_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query, report.ReporterID, report.ReportedID, report.Reason)
	return row.Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt)
}

func (r *postgresReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	query := `SELECT id, reporter_id, reported_id, reason, status, defense, created_at, updated_at FROM reports WHERE id = $1`
	err := r.db.GetContext(ctx, &report, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *postgresReportRepository) List(ctx context.Context, status string) ([]model.Report, error) {
	var reports []model.Report
	query := `
		SELECT id, reporter_id, reported_id, reason, status, defense, created_at, updated_at
		FROM reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &reports, query, status)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.Report{}
	}
	return reports, nil
}

func (r *postgresReportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reports SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresReportRepository) SetDefense(ctx context.Context, id uuid.UUID, defense string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reports SET defense = $2, updated_at = now() WHERE id = $1`, id, defense)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
