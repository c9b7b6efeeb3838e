package api

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/export"
	"github.com/iplayapp/iplay-backend/internal/leaderboard"
	"github.com/iplayapp/iplay-backend/internal/models"
)

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportUsers builds an admin workbook (full user roster plus the current
// national standings) and uploads it to object storage, returning the key.
func (s *Server) exportUsers(ctx context.Context, caller string) (string, error) {
	if err := requireAdmin(ctx, s.DB, caller); err != nil {
		return "", err
	}
	if s.Bucket == nil {
		return "", Errf(CodeInternal, "object storage is not configured")
	}

	users, err := db.ListUsers(ctx, s.DB)
	if err != nil {
		return "", err
	}
	national, err := db.GetLeaderboard(ctx, s.DB,
		leaderboard.DocID(models.ScopeNational, models.AudienceAll, models.PeriodAllTime, nil))
	if err != nil {
		return "", err
	}

	sheets := []export.SheetSpec{usersSheet(users)}
	if national != nil {
		sheets = append(sheets, standingsSheet(national))
	}
	f, err := export.NewWorkbook(sheets)
	if err != nil {
		return "", err
	}
	buf, err := export.WriteBuffer(f)
	if err != nil {
		return "", err
	}

	key := "exports/users_" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
	if err := s.Bucket.Put(ctx, key, bytes.NewReader(buf.Bytes()), exportContentType); err != nil {
		return "", err
	}
	return key, nil
}

func usersSheet(users []models.User) export.SheetSpec {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID,
			strOrEmpty(u.Email),
			u.DisplayName,
			strconv.FormatInt(u.TotalXP, 10),
			strOrEmpty(u.State),
			strOrEmpty(u.SchoolTag),
			string(u.Role),
			boolString(u.IsBanned),
			u.CreatedAt.Format("2006-01-02"),
		})
	}
	return export.SheetSpec{
		Title:  "Users",
		Header: []string{"ID", "Email", "Name", "Total XP", "State", "School", "Role", "Banned", "Joined"},
		Rows:   rows,
	}
}

func standingsSheet(snap *models.LeaderboardSnapshot) export.SheetSpec {
	rows := make([][]string, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.UserID,
			e.DisplayName,
			strconv.FormatInt(e.TotalXP, 10),
		})
	}
	return export.SheetSpec{
		Title:  "National Standings",
		Header: []string{"Rank", "User ID", "Name", "Total XP"},
		Rows:   rows,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
