package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"github.com/iplayapp/iplay-backend/internal/observability"
	"go.uber.org/zap"
)

const maxEntries = 100

// BuildSnapshots computes every leaderboard partition from the full user,
// school and classroom sets: national (all and solo audiences), one per
// state with at least one qualifying user, one per school and one per
// classroom with at least one qualifying member. A user qualifies only with
// a strictly positive score. Ordering is score descending with user id as
// the tie break, so identical input yields identical output.
func BuildSnapshots(now time.Time, users []models.User, schools []models.School, classrooms []models.Classroom) []models.LeaderboardSnapshot {
	var qualifying []models.User
	for _, u := range users {
		if u.TotalXP > 0 {
			qualifying = append(qualifying, u)
		}
	}

	var snaps []models.LeaderboardSnapshot

	snaps = append(snaps, snapshot(now, models.ScopeNational, models.AudienceAll, nil, qualifying))

	var solo []models.User
	for _, u := range qualifying {
		if len(u.ClassroomIDs) == 0 {
			solo = append(solo, u)
		}
	}
	snaps = append(snaps, snapshot(now, models.ScopeNational, models.AudienceSolo, nil, solo))

	byState := map[string][]models.User{}
	for _, u := range qualifying {
		if u.State != nil && *u.State != "" {
			byState[*u.State] = append(byState[*u.State], u)
		}
	}
	for _, state := range sortedKeys(byState) {
		state := state
		snaps = append(snaps, snapshot(now, models.ScopeState, models.AudienceAll, &state, byState[state]))
	}

	for _, school := range schools {
		var members []models.User
		for _, u := range qualifying {
			if u.SchoolTag != nil && *u.SchoolTag == school.ID {
				members = append(members, u)
			}
		}
		if len(members) == 0 {
			continue
		}
		id := school.ID
		snaps = append(snaps, snapshot(now, models.ScopeSchool, models.AudienceAll, &id, members))
	}

	for _, classroom := range classrooms {
		var members []models.User
		for _, u := range qualifying {
			if containsString(u.ClassroomIDs, classroom.ID) {
				members = append(members, u)
			}
		}
		if len(members) == 0 {
			continue
		}
		id := classroom.ID
		snaps = append(snaps, snapshot(now, models.ScopeClassroom, models.AudienceAll, &id, members))
	}

	return snaps
}

func snapshot(now time.Time, scope, audience string, identifier *string, users []models.User) models.LeaderboardSnapshot {
	ranked := make([]models.User, len(users))
	copy(ranked, users)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalXP != ranked[j].TotalXP {
			return ranked[i].TotalXP > ranked[j].TotalXP
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > maxEntries {
		ranked = ranked[:maxEntries]
	}

	entries := make([]models.LeaderboardEntry, 0, len(ranked))
	for i, u := range ranked {
		name := u.DisplayName
		if name == "" {
			name = "Anonymous"
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			DisplayName: name,
			AvatarURL:   u.AvatarURL,
			TotalXP:     u.TotalXP,
		})
	}

	return models.LeaderboardSnapshot{
		ID:            DocID(scope, audience, models.PeriodAllTime, identifier),
		Scope:         scope,
		Audience:      audience,
		Period:        models.PeriodAllTime,
		Identifier:    identifier,
		Entries:       entries,
		LastUpdatedAt: now,
	}
}

// DocID builds the deterministic cache key: scope, audience and period, plus
// the partition identifier when the scope has one.
func DocID(scope, audience, period string, identifier *string) string {
	parts := []string{scope, audience, period}
	if identifier != nil && *identifier != "" {
		parts = append(parts, *identifier)
	}
	return strings.Join(parts, "_")
}

// Run recomputes and persists every partition. The run aborts only when the
// user set cannot be read; any later failure is logged and the remaining
// partitions continue. Empty partitions are not written; instead their stale
// cache rows are purged once a run finishes without failures.
func Run(ctx context.Context, database *sql.DB, log *zap.SugaredLogger) error {
	start := time.Now().UTC()

	users, err := db.ListUsers(ctx, database)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}

	schools, err := db.ListSchools(ctx, database)
	failures := 0
	if err != nil {
		failures++
		observability.CaptureErr(err)
		log.Errorw("load schools failed, skipping school leaderboards", "err", err)
		schools = nil
	}
	classrooms, err := db.ListClassrooms(ctx, database)
	if err != nil {
		failures++
		observability.CaptureErr(err)
		log.Errorw("load classrooms failed, skipping classroom leaderboards", "err", err)
		classrooms = nil
	}

	snaps := BuildSnapshots(start, users, schools, classrooms)
	for _, snap := range snaps {
		if err := db.UpsertLeaderboard(ctx, database, snap); err != nil {
			failures++
			observability.CaptureErr(err)
			log.Errorw("leaderboard write failed", "id", snap.ID, "err", err)
			continue
		}
	}
	log.Infow("leaderboards updated", "partitions", len(snaps), "failures", failures)

	// A failed partition keeps its previous cache row, so only purge when
	// everything landed.
	if failures == 0 {
		purged, err := db.PurgeLeaderboardsBefore(ctx, database, start)
		if err != nil {
			observability.CaptureErr(err)
			log.Errorw("stale leaderboard purge failed", "err", err)
		} else if purged > 0 {
			log.Infow("stale leaderboards purged", "count", purged)
		}
	}
	return nil
}

func sortedKeys(m map[string][]models.User) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
