package db

import (
	"context"
	"database/sql"

	"github.com/iplayapp/iplay-backend/internal/models"
)

func ListClassrooms(ctx context.Context, database *sql.DB) ([]models.Classroom, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, name, COALESCE(join_code, ''), student_ids FROM classrooms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Classroom
	for rows.Next() {
		var c models.Classroom
		var students []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.JoinCode, &students); err != nil {
			return nil, err
		}
		if c.StudentIDs, err = decodeStringList(students); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func ClassroomCodeExists(ctx context.Context, database *sql.DB, code string) (bool, error) {
	var exists bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM classrooms WHERE join_code = $1)`, code).Scan(&exists)
	return exists, err
}
