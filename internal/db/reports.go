package db

import (
	"context"
	"database/sql"

	"github.com/iplayapp/iplay-backend/internal/models"
)

func GetReportByID(ctx context.Context, database *sql.DB, id string) (*models.Report, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, reporter_id, report_type, reported_item_id, status,
			resolution, reviewed_by, reviewed_at, created_at
		FROM reports WHERE id = $1`, id)
	var r models.Report
	err := row.Scan(&r.ID, &r.ReporterID, &r.ReportType, &r.ReportedItemID, &r.Status,
		&r.Resolution, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}
