package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ReporterID uuid.UUID `db:"reporter_id" json:"reporter_id"`
	ReportedID uuid.UUID `db:"reported_id" json:"reported_id"`
	Reason     string    `db:"reason" json:"reason"`
	Status     string    `db:"status" json:"status"`
	Defense    *string   `db:"defense" json:"defense,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
