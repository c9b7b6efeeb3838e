package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iplayapp/iplay-backend/internal/models"
)

// UpsertDailyChallenge overwrites by id, so generating the same date twice
// replaces the document instead of duplicating it.
func UpsertDailyChallenge(ctx context.Context, database *sql.DB, ch models.DailyChallenge) error {
	questions, err := json.Marshal(ch.Questions)
	if err != nil {
		return err
	}
	_, err = database.ExecContext(ctx, `
		INSERT INTO daily_challenges (id, date, questions, xp_reward, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			date = excluded.date,
			questions = excluded.questions,
			xp_reward = excluded.xp_reward,
			expires_at = excluded.expires_at`,
		ch.ID, ch.Date, questions, ch.XPReward, ch.ExpiresAt)
	return err
}

func GetDailyChallenge(ctx context.Context, database *sql.DB, id string) (*models.DailyChallenge, error) {
	row := database.QueryRowContext(ctx,
		`SELECT id, date, questions, xp_reward, expires_at FROM daily_challenges WHERE id = $1`, id)
	var ch models.DailyChallenge
	var questions []byte
	if err := row.Scan(&ch.ID, &ch.Date, &questions, &ch.XPReward, &ch.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(questions, &ch.Questions); err != nil {
		return nil, err
	}
	return &ch, nil
}
