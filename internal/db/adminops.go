package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iplayapp/iplay-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// TransferSchoolOwnership moves the principal role in one transaction:
// school row, previous principal, new principal. The caller has already
// been verified as the current principal.
func TransferSchoolOwnership(ctx context.Context, database *sql.DB, schoolID, oldPrincipalID, newPrincipalID string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE schools SET principal_id = $2, updated_at = NOW() WHERE id = $1`,
		schoolID, newPrincipalID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET is_principal = FALSE, principal_of_school = NULL, updated_at = NOW()
		WHERE id = $1`, oldPrincipalID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET is_principal = TRUE, principal_of_school = $2, updated_at = NOW()
		WHERE id = $1`, newPrincipalID, schoolID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("new principal %s: %w", newPrincipalID, ErrNotFound)
	}
	return tx.Commit()
}

// BanUser flags the target and strips them from every classroom roster in
// the same transaction.
func BanUser(ctx context.Context, database *sql.DB, targetID, bannedBy, reason string, at time.Time) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE users SET is_banned = TRUE, banned_at = $2, banned_by = $3, ban_reason = $4, updated_at = NOW()
		WHERE id = $1`, targetID, at, bannedBy, reason)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE classrooms SET student_ids = student_ids - $1
		WHERE student_ids @> to_jsonb($1::text)`, targetID); err != nil {
		return err
	}
	return tx.Commit()
}

// deletableCollections maps a report's item type to the table moderation is
// allowed to delete from. Anything else is rejected before SQL is built.
var deletableCollections = map[string]string{
	"announcement": "announcements",
	"assignment":   "assignments",
	"report":       "reports",
	"user":         "users",
	"classroom":    "classrooms",
	"school":       "schools",
}

var ErrUnknownCollection = errors.New("unknown report item collection")

type ReportResolution struct {
	Status     string
	Resolution string
	ReviewedBy string
	ReviewedAt time.Time

	// DeleteItem removes the reported item from its declared collection.
	DeleteItem bool
	// BanReporter flags the reporting user.
	BanReporter bool
	BanReason   string
}

// ResolveReport applies a moderation decision and its side effects as one
// transaction.
func ResolveReport(ctx context.Context, database *sql.DB, report *models.Report, res ReportResolution) error {
	var table string
	if res.DeleteItem {
		var ok bool
		table, ok = deletableCollections[report.ReportType]
		if !ok {
			return fmt.Errorf("%q: %w", report.ReportType, ErrUnknownCollection)
		}
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE reports SET status = $2, resolution = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1`,
		report.ID, res.Status, res.Resolution, res.ReviewedBy, res.ReviewedAt); err != nil {
		return err
	}
	if res.DeleteItem {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE id = $1`, report.ReportedItemID); err != nil {
			return err
		}
	}
	if res.BanReporter {
		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET is_banned = TRUE, banned_at = $2, banned_by = $3, ban_reason = $4, updated_at = NOW()
			WHERE id = $1`,
			report.ReporterID, res.ReviewedAt, res.ReviewedBy, res.BanReason); err != nil {
			return err
		}
	}
	return tx.Commit()
}
