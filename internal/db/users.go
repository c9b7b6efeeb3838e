package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iplayapp/iplay-backend/internal/models"
)

const userColumns = `id, email, display_name, avatar_url, total_xp, state, school_tag,
	classroom_ids, role, is_principal, principal_of_school,
	is_banned, banned_at, banned_by, ban_reason, progress_summary, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var role string
	var classroomIDs, progress []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.TotalXP, &u.State, &u.SchoolTag,
		&classroomIDs, &role, &u.IsPrincipal, &u.PrincipalOfSchool,
		&u.IsBanned, &u.BannedAt, &u.BannedBy, &u.BanReason, &progress, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if u.ClassroomIDs, err = decodeStringList(classroomIDs); err != nil {
		return nil, err
	}
	if len(progress) > 0 {
		if err := json.Unmarshal(progress, &u.ProgressSummary); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func ListUsers(ctx context.Context, database *sql.DB) ([]models.User, error) {
	rows, err := database.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func GetUserByID(ctx context.Context, database *sql.DB, id string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func GetUserByEmail(ctx context.Context, database *sql.DB, email string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func SetUserRole(ctx context.Context, database *sql.DB, id string, role models.Role) error {
	res, err := database.ExecContext(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
