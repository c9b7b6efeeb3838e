package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                string
	Email             *string
	DisplayName       string
	AvatarURL         *string
	TotalXP           int64
	State             *string
	SchoolTag         *string
	ClassroomIDs      []string
	Role              Role
	IsPrincipal       bool
	PrincipalOfSchool *string
	IsBanned          bool
	BannedAt          *time.Time
	BannedBy          *string
	BanReason         *string
	ProgressSummary   map[string]RealmProgress
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RealmProgress is the per-realm slice of a user's progress summary.
type RealmProgress struct {
	Completed bool `json:"completed"`
}
