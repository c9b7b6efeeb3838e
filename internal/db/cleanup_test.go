//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/testutil/testdb"
)

func mustExec(t *testing.T, database *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := database.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
}

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := database.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func seedUser(t *testing.T, database *sql.DB, id string, classroomIDs string) {
	t.Helper()
	mustExec(t, database, `
		INSERT INTO users (id, email, display_name, total_xp, classroom_ids)
		VALUES ($1, $2, $3, 10, $4::jsonb)`,
		id, id+"@example.com", "User "+id, classroomIDs)
}

func TestCleanupUserData_Cascade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "gone", `["c1"]`)
	seedUser(t, h.DB, "stays", `["c1"]`)
	mustExec(t, h.DB, `INSERT INTO classrooms (id, student_ids) VALUES ('c1', '["gone","stays"]'::jsonb)`)
	mustExec(t, h.DB, `INSERT INTO progress (id, user_id, realm_id) VALUES ('p1', 'gone', 'realm_copyright')`)
	mustExec(t, h.DB, `INSERT INTO progress (id, user_id, realm_id) VALUES ('p2', 'stays', 'realm_copyright')`)
	mustExec(t, h.DB, `
		INSERT INTO certificates (id, user_id, realm_id, realm_name, certificate_url, certificate_number)
		VALUES ('gone_realm_copyright', 'gone', 'realm_copyright', 'Copyright', 'oss://b/k', 'IPLAY-X-1')`)
	mustExec(t, h.DB, `
		INSERT INTO daily_challenge_attempts (id, user_id, challenge_id, score)
		VALUES ('at1', 'gone', 'challenge_2026-03-01', 3)`)

	// The row deletion itself happens upstream; the cascade cleans the rest.
	mustExec(t, h.DB, `DELETE FROM users WHERE id = 'gone'`)
	if err := db.CleanupUserData(ctx, h.DB, "gone"); err != nil {
		t.Fatal(err)
	}

	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM progress WHERE user_id = 'gone'`); n != 0 {
		t.Errorf("progress rows left: %d", n)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM certificates WHERE user_id = 'gone'`); n != 0 {
		t.Errorf("certificate rows left: %d", n)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM daily_challenge_attempts WHERE user_id = 'gone'`); n != 0 {
		t.Errorf("attempt rows left: %d", n)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM classrooms WHERE student_ids @> to_jsonb('gone'::text)`); n != 0 {
		t.Errorf("user still on %d rosters", n)
	}

	// Unrelated records survive untouched.
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM progress WHERE user_id = 'stays'`); n != 1 {
		t.Errorf("unrelated progress rows: %d, want 1", n)
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM classrooms WHERE student_ids @> to_jsonb('stays'::text)`); n != 1 {
		t.Errorf("unrelated roster membership: %d, want 1", n)
	}
}

func TestCleanupClassroomData_Cascade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	seedUser(t, h.DB, "s1", `["c1","c2"]`)
	seedUser(t, h.DB, "s2", `["c1"]`)
	mustExec(t, h.DB, `INSERT INTO join_requests (id, classroom_id, user_id) VALUES ('jr1', 'c1', 's1')`)
	mustExec(t, h.DB, `INSERT INTO announcements (id, classroom_id, title) VALUES ('an1', 'c1', 'hello')`)
	mustExec(t, h.DB, `INSERT INTO assignments (id, classroom_id, title) VALUES ('as1', 'c1', 'homework')`)
	mustExec(t, h.DB, `INSERT INTO announcements (id, classroom_id, title) VALUES ('an2', 'c2', 'other')`)

	// The classroom row is already gone; the roster comes from the snapshot.
	if err := db.CleanupClassroomData(ctx, h.DB, "c1", []string{"s1", "s2"}); err != nil {
		t.Fatal(err)
	}

	u1, err := db.GetUserByID(ctx, h.DB, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(u1.ClassroomIDs) != 1 || u1.ClassroomIDs[0] != "c2" {
		t.Errorf("s1 classrooms = %v, want [c2]", u1.ClassroomIDs)
	}
	u2, err := db.GetUserByID(ctx, h.DB, "s2")
	if err != nil {
		t.Fatal(err)
	}
	if len(u2.ClassroomIDs) != 0 {
		t.Errorf("s2 classrooms = %v, want empty", u2.ClassroomIDs)
	}

	for _, q := range []string{
		`SELECT COUNT(*) FROM join_requests WHERE classroom_id = 'c1'`,
		`SELECT COUNT(*) FROM announcements WHERE classroom_id = 'c1'`,
		`SELECT COUNT(*) FROM assignments WHERE classroom_id = 'c1'`,
	} {
		if n := countRows(t, h.DB, q); n != 0 {
			t.Errorf("%s = %d, want 0", q, n)
		}
	}
	if n := countRows(t, h.DB, `SELECT COUNT(*) FROM announcements WHERE classroom_id = 'c2'`); n != 1 {
		t.Errorf("unrelated announcements: %d, want 1", n)
	}
}
