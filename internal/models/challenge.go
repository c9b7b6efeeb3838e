package models

import "time"

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// DailyChallenge is valid from Date until ExpiresAt (one calendar day).
// Its ID is derived from the date, so re-creating the same day overwrites.
type DailyChallenge struct {
	ID        string
	Date      time.Time
	Questions []Question
	XPReward  int
	ExpiresAt time.Time
}
