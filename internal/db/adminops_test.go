//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"github.com/iplayapp/iplay-backend/internal/testutil/testdb"
)

func TestTransferSchoolOwnership(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "old", `[]`)
	seedUser(t, h.DB, "new", `[]`)
	mustExec(t, h.DB, `
		UPDATE users SET is_principal = TRUE, principal_of_school = 'sch1' WHERE id = 'old'`)
	mustExec(t, h.DB, `
		INSERT INTO schools (id, name, principal_id) VALUES ('sch1', 'Test School', 'old')`)

	if err := db.TransferSchoolOwnership(ctx, h.DB, "sch1", "old", "new"); err != nil {
		t.Fatal(err)
	}

	school, err := db.GetSchoolByID(ctx, h.DB, "sch1")
	if err != nil {
		t.Fatal(err)
	}
	if school.PrincipalID != "new" {
		t.Errorf("principal = %q, want new", school.PrincipalID)
	}
	oldUser, _ := db.GetUserByID(ctx, h.DB, "old")
	if oldUser.IsPrincipal || oldUser.PrincipalOfSchool != nil {
		t.Errorf("old principal not cleared: %+v", oldUser)
	}
	newUser, _ := db.GetUserByID(ctx, h.DB, "new")
	if !newUser.IsPrincipal || newUser.PrincipalOfSchool == nil || *newUser.PrincipalOfSchool != "sch1" {
		t.Errorf("new principal not set: %+v", newUser)
	}
}

func TestTransferSchoolOwnership_MissingNewPrincipal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "old", `[]`)
	mustExec(t, h.DB, `
		INSERT INTO schools (id, name, principal_id) VALUES ('sch1', 'Test School', 'old')`)

	err = db.TransferSchoolOwnership(ctx, h.DB, "sch1", "old", "nobody")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	// The whole transfer rolls back; the school keeps its principal.
	school, _ := db.GetSchoolByID(ctx, h.DB, "sch1")
	if school.PrincipalID != "old" {
		t.Errorf("principal = %q, want old after rollback", school.PrincipalID)
	}
}

func TestBanUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "target", `["c1"]`)
	mustExec(t, h.DB, `INSERT INTO classrooms (id, student_ids) VALUES ('c1', '["target","other"]'::jsonb)`)

	at := time.Now().UTC()
	if err := db.BanUser(ctx, h.DB, "target", "admin1", "Violation of terms", at); err != nil {
		t.Fatal(err)
	}

	u, err := db.GetUserByID(ctx, h.DB, "target")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsBanned || u.BanReason == nil || *u.BanReason != "Violation of terms" {
		t.Errorf("ban fields not set: %+v", u)
	}
	if u.BannedBy == nil || *u.BannedBy != "admin1" {
		t.Errorf("bannedBy = %v, want admin1", u.BannedBy)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM classrooms WHERE student_ids @> to_jsonb('target'::text)`); n != 0 {
		t.Errorf("banned user still on %d rosters", n)
	}

	if err := db.BanUser(ctx, h.DB, "nobody", "admin1", "x", at); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("banning a missing user: err = %v, want ErrNotFound", err)
	}
}

func TestResolveReport_BanReporter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "reporter", `[]`)
	mustExec(t, h.DB, `INSERT INTO announcements (id, classroom_id, title) VALUES ('an1', 'c1', 'reported')`)
	mustExec(t, h.DB, `
		INSERT INTO reports (id, reporter_id, report_type, reported_item_id)
		VALUES ('r1', 'reporter', 'announcement', 'an1')`)

	report, err := db.GetReportByID(ctx, h.DB, "r1")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	err = db.ResolveReport(ctx, h.DB, report, db.ReportResolution{
		Status:      models.ReportResolved,
		Resolution:  "Action: ban",
		ReviewedBy:  "admin1",
		ReviewedAt:  now,
		BanReporter: true,
		BanReason:   "Policy violation",
	})
	if err != nil {
		t.Fatal(err)
	}

	resolved, _ := db.GetReportByID(ctx, h.DB, "r1")
	if resolved.Status != models.ReportResolved || resolved.ReviewedBy == nil || *resolved.ReviewedBy != "admin1" {
		t.Errorf("report not resolved: %+v", resolved)
	}
	reporter, _ := db.GetUserByID(ctx, h.DB, "reporter")
	if !reporter.IsBanned {
		t.Error("reporter not banned")
	}
	// The reported item is untouched without DeleteItem.
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM announcements WHERE id = 'an1'`); n != 1 {
		t.Errorf("reported item rows = %d, want 1", n)
	}
}

func TestResolveReport_DeleteItem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "reporter", `[]`)
	mustExec(t, h.DB, `INSERT INTO announcements (id, classroom_id, title) VALUES ('an1', 'c1', 'reported')`)
	mustExec(t, h.DB, `
		INSERT INTO reports (id, reporter_id, report_type, reported_item_id)
		VALUES ('r1', 'reporter', 'announcement', 'an1')`)

	report, err := db.GetReportByID(ctx, h.DB, "r1")
	if err != nil {
		t.Fatal(err)
	}
	err = db.ResolveReport(ctx, h.DB, report, db.ReportResolution{
		Status:     models.ReportResolved,
		Resolution: "Action: delete",
		ReviewedBy: "admin1",
		ReviewedAt: time.Now().UTC(),
		DeleteItem: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM announcements WHERE id = 'an1'`); n != 0 {
		t.Error("reported item not deleted")
	}

	report.ReportType = "weird"
	err = db.ResolveReport(ctx, h.DB, report, db.ReportResolution{DeleteItem: true})
	if !errors.Is(err, db.ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}
}
