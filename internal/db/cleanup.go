package db

import (
	"context"
	"database/sql"
	"time"
)

// CleanupUserData cascades a user deletion: progress, certificates and
// challenge attempts referencing the user go away, and the user id is
// stripped from every classroom roster. One transaction, all or nothing.
func CleanupUserData(ctx context.Context, database *sql.DB, userID string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM certificates WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_challenge_attempts WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE classrooms SET student_ids = student_ids - $1
		WHERE student_ids @> to_jsonb($1::text)`, userID); err != nil {
		return err
	}
	return tx.Commit()
}

// CleanupClassroomData cascades a classroom deletion using the roster from
// the deletion snapshot (the classroom row is already gone). A missing or
// empty roster just skips the membership updates.
func CleanupClassroomData(ctx context.Context, database *sql.DB, classroomID string, studentIDs []string) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, studentID := range studentIDs {
		if studentID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET classroom_ids = classroom_ids - $2, updated_at = NOW()
			WHERE id = $1`, studentID, classroomID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM join_requests WHERE classroom_id = $1`, classroomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM announcements WHERE classroom_id = $1`, classroomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE classroom_id = $1`, classroomID); err != nil {
		return err
	}
	return tx.Commit()
}

// SweepStaleRecords reaps join requests resolved before the cutoff and
// announcements that have expired.
func SweepStaleRecords(ctx context.Context, database *sql.DB, resolvedBefore, now time.Time) (requests, announcements int64, err error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM join_requests WHERE resolved_at IS NOT NULL AND resolved_at < $1`, resolvedBefore)
	if err != nil {
		return 0, 0, err
	}
	requests, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		`DELETE FROM announcements WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, 0, err
	}
	announcements, _ = res.RowsAffected()

	return requests, announcements, tx.Commit()
}
