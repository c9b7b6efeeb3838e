package models

import "time"

type School struct {
	ID          string
	Name        string
	SchoolCode  string
	PrincipalID string
	UpdatedAt   time.Time
}

type Classroom struct {
	ID         string
	Name       string
	JoinCode   string
	StudentIDs []string
}
