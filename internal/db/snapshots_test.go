//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"github.com/iplayapp/iplay-backend/internal/testutil/testdb"
)

func TestUpsertDailyChallenge_OverwritesSameDay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	first := models.DailyChallenge{
		ID:        "challenge_2026-03-05",
		Date:      date,
		Questions: []models.Question{{Question: "first?", Options: []string{"a", "b"}}},
		XPReward:  50,
		ExpiresAt: date.AddDate(0, 0, 1),
	}
	if err := db.UpsertDailyChallenge(ctx, h.DB, first); err != nil {
		t.Fatal(err)
	}

	second := first
	second.Questions = []models.Question{{Question: "second?", Options: []string{"a", "b"}}}
	if err := db.UpsertDailyChallenge(ctx, h.DB, second); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetDailyChallenge(ctx, h.DB, "challenge_2026-03-05")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("challenge not found")
	}
	if len(got.Questions) != 1 || got.Questions[0].Question != "second?" {
		t.Errorf("questions = %+v, want the second set only", got.Questions)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM daily_challenges`); n != 1 {
		t.Errorf("challenge rows = %d, want 1", n)
	}
}

func TestLeaderboardUpsertAndPurge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	old := time.Now().UTC().Add(-time.Hour)
	stale := models.LeaderboardSnapshot{
		ID: "classroom_all_allTime_dead", Scope: models.ScopeClassroom,
		Audience: models.AudienceAll, Period: models.PeriodAllTime,
		Entries: []models.LeaderboardEntry{}, LastUpdatedAt: old,
	}
	if err := db.UpsertLeaderboard(ctx, h.DB, stale); err != nil {
		t.Fatal(err)
	}

	runStart := time.Now().UTC()
	fresh := models.LeaderboardSnapshot{
		ID: "national_all_allTime", Scope: models.ScopeNational,
		Audience: models.AudienceAll, Period: models.PeriodAllTime,
		Entries: []models.LeaderboardEntry{
			{Rank: 1, UserID: "u1", DisplayName: "Asha", TotalXP: 100},
		},
		LastUpdatedAt: runStart,
	}
	if err := db.UpsertLeaderboard(ctx, h.DB, fresh); err != nil {
		t.Fatal(err)
	}

	purged, err := db.PurgeLeaderboardsBefore(ctx, h.DB, runStart)
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}

	gone, err := db.GetLeaderboard(ctx, h.DB, "classroom_all_allTime_dead")
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Error("stale partition survived the purge")
	}
	kept, err := db.GetLeaderboard(ctx, h.DB, "national_all_allTime")
	if err != nil {
		t.Fatal(err)
	}
	if kept == nil || len(kept.Entries) != 1 || kept.Entries[0].UserID != "u1" {
		t.Errorf("kept snapshot = %+v", kept)
	}
}

func TestCertificateInsertIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	cert := models.Certificate{
		ID: "u1_realm_gi", UserID: "u1", CertificateType: "realm",
		RealmID: "realm_gi", RealmName: "Geographical Indication",
		CertificateURL: "oss://b/certificates/u1/u1_realm_gi.pdf",
		CertificateNumber: "IPLAY-REALM_GI-1700000000000",
		IssuedAt:          time.Now().UTC(),
	}
	if err := db.InsertCertificate(ctx, h.DB, cert); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertCertificate(ctx, h.DB, cert); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM certificates WHERE user_id = 'u1'`); n != 1 {
		t.Errorf("certificate rows = %d, want 1", n)
	}

	exists, err := db.CertificateExists(ctx, h.DB, "u1", "realm_gi")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("CertificateExists = false after insert")
	}
}
