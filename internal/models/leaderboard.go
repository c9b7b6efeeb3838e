package models

import "time"

const (
	ScopeNational  = "national"
	ScopeState     = "state"
	ScopeSchool    = "school"
	ScopeClassroom = "classroom"

	AudienceAll  = "all"
	AudienceSolo = "solo"

	PeriodAllTime = "allTime"
)

// LeaderboardEntry snapshots a user's name and avatar at aggregation time;
// both go stale until the next run.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	TotalXP     int64   `json:"totalXP"`
}

// LeaderboardSnapshot is one cached leaderboard partition. Its ID is the
// deterministic concatenation of scope, audience, period and (when the
// scope needs one) the state/school/classroom identifier.
type LeaderboardSnapshot struct {
	ID            string
	Scope         string
	Audience      string
	Period        string
	Identifier    *string
	Entries       []LeaderboardEntry
	LastUpdatedAt time.Time
}
