package db

import (
	"context"
	"database/sql"

	"github.com/iplayapp/iplay-backend/internal/models"
)

func ListSchools(ctx context.Context, database *sql.DB) ([]models.School, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, name, COALESCE(school_code, ''), COALESCE(principal_id, ''), updated_at FROM schools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.School
	for rows.Next() {
		var s models.School
		if err := rows.Scan(&s.ID, &s.Name, &s.SchoolCode, &s.PrincipalID, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func GetSchoolByID(ctx context.Context, database *sql.DB, id string) (*models.School, error) {
	row := database.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(school_code, ''), COALESCE(principal_id, ''), updated_at FROM schools WHERE id = $1`, id)
	var s models.School
	if err := row.Scan(&s.ID, &s.Name, &s.SchoolCode, &s.PrincipalID, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func SchoolCodeExists(ctx context.Context, database *sql.DB, code string) (bool, error) {
	var exists bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schools WHERE school_code = $1)`, code).Scan(&exists)
	return exists, err
}
