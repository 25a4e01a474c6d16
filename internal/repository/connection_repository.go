package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/model"
)

type ConnectionRepository interface {
	CreatePending(ctx context.Context, requesterID, recipientID uuid.UUID) error
	FindPending(ctx context.Context, requesterID, recipientID uuid.UUID) (*model.Connection, error)
	Accept(ctx context.Context, requesterID, recipientID uuid.UUID) error
	DeletePending(ctx context.Context, requesterID, recipientID uuid.UUID) error
	// DeleteBetween removes pending and accepted edges in both directions.
	DeleteBetween(ctx context.Context, userA, userB uuid.UUID) error
	AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	SetsFor(ctx context.Context, userID uuid.UUID) (*model.ConnectionSets, error)
}

type postgresConnectionRepository struct {
	db *sqlx.DB
}

func NewPostgresConnectionRepository(db *sqlx.DB) ConnectionRepository {
	return &postgresConnectionRepository{db: db}
}

func (r *postgresConnectionRepository) CreatePending(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	// Re-sending a request that is already recorded is a no-op.
	query := `
		INSERT INTO user_connections (requester_id, recipient_id, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (requester_id, recipient_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, requesterID, recipientID)
	return err
}

func (r *postgresConnectionRepository) FindPending(ctx context.Context, requesterID, recipientID uuid.UUID) (*model.Connection, error) {
	var conn model.Connection
	query := `
		SELECT id, requester_id, recipient_id, status, created_at, updated_at
		FROM user_connections
		WHERE requester_id = $1 AND recipient_id = $2 AND status = 'pending'
	`
	err := r.db.GetContext(ctx, &conn, query, requesterID, recipientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *postgresConnectionRepository) Accept(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	query := `
		UPDATE user_connections SET status = 'accepted', updated_at = now()
		WHERE requester_id = $1 AND recipient_id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, requesterID, recipientID)
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

func (r *postgresConnectionRepository) DeletePending(ctx context.Context, requesterID, recipientID uuid.UUID) error {
	query := `DELETE FROM user_connections WHERE requester_id = $1 AND recipient_id = $2 AND status = 'pending'`
	_, err := r.db.ExecContext(ctx, query, requesterID, recipientID)
	return err
}

func (r *postgresConnectionRepository) DeleteBetween(ctx context.Context, userA, userB uuid.UUID) error {
	query := `
		DELETE FROM user_connections
		WHERE (requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1)
	`
	_, err := r.db.ExecContext(ctx, query, userA, userB)
	return err
}

func (r *postgresConnectionRepository) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_connections
			WHERE status = 'accepted'
			  AND ((requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1))
		)
	`
	err := r.db.GetContext(ctx, &exists, query, userA, userB)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

func (r *postgresConnectionRepository) SetsFor(ctx context.Context, userID uuid.UUID) (*model.ConnectionSets, error) {
	var edges []model.Connection
	query := `
		SELECT id, requester_id, recipient_id, status, created_at, updated_at
		FROM user_connections
		WHERE requester_id = $1 OR recipient_id = $1
	`
	if err := r.db.SelectContext(ctx, &edges, query, userID); err != nil {
		return nil, err
	}

	sets := &model.ConnectionSets{
		Sent:        []uuid.UUID{},
		Received:    []uuid.UUID{},
		Connections: []uuid.UUID{},
	}
	for _, e := range edges {
		other := e.RequesterID
		if other == userID {
			other = e.RecipientID
		}
		switch {
		case e.Status == model.ConnectionStatusAccepted:
			sets.Connections = append(sets.Connections, other)
		case e.RequesterID == userID:
			sets.Sent = append(sets.Sent, other)
		default:
			sets.Received = append(sets.Received, other)
		}
	}
	return sets, nil
}
