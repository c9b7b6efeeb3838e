package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iplayapp/iplay-backend/internal/models"
)

func UpsertLeaderboard(ctx context.Context, database *sql.DB, snap models.LeaderboardSnapshot) error {
	entries, err := json.Marshal(snap.Entries)
	if err != nil {
		return err
	}
	_, err = database.ExecContext(ctx, `
		INSERT INTO leaderboard_cache (id, scope, audience, period, identifier, entries, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			scope = excluded.scope,
			audience = excluded.audience,
			period = excluded.period,
			identifier = excluded.identifier,
			entries = excluded.entries,
			last_updated_at = excluded.last_updated_at`,
		snap.ID, snap.Scope, snap.Audience, snap.Period, snap.Identifier, entries, snap.LastUpdatedAt)
	return err
}

func GetLeaderboard(ctx context.Context, database *sql.DB, id string) (*models.LeaderboardSnapshot, error) {
	row := database.QueryRowContext(ctx, `
		SELECT id, scope, audience, period, identifier, entries, last_updated_at
		FROM leaderboard_cache WHERE id = $1`, id)
	var snap models.LeaderboardSnapshot
	var entries []byte
	err := row.Scan(&snap.ID, &snap.Scope, &snap.Audience, &snap.Period, &snap.Identifier, &entries, &snap.LastUpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(entries, &snap.Entries); err != nil {
		return nil, err
	}
	return &snap, nil
}

// PurgeLeaderboardsBefore drops cache rows an aggregation run did not touch,
// so partitions that lost their last qualifying member do not serve a stale
// document forever.
func PurgeLeaderboardsBefore(ctx context.Context, database *sql.DB, cutoff time.Time) (int64, error) {
	res, err := database.ExecContext(ctx,
		`DELETE FROM leaderboard_cache WHERE last_updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
