package challenge

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"go.uber.org/zap"
)

const (
	questionsPerDay = 5
	xpReward        = 50
)

// questionBank is the static pool daily challenges draw from.
var questionBank = []models.Question{
	{
		Question:      "What is the term of copyright protection in India for original literary works?",
		Options:       []string{"50 years", "60 years", "70 years", "Lifetime + 60 years"},
		CorrectAnswer: 3,
		Explanation:   "In India, copyright lasts for the lifetime of the author plus 60 years.",
	},
	{
		Question:      "Which symbol is used to indicate a registered trademark?",
		Options:       []string{"©", "™", "®", "℗"},
		CorrectAnswer: 2,
		Explanation:   "® symbol indicates a registered trademark.",
	},
	{
		Question:      "What is the maximum term for a patent in India?",
		Options:       []string{"10 years", "20 years", "25 years", "30 years"},
		CorrectAnswer: 1,
		Explanation:   "Patents in India are valid for 20 years from the date of filing.",
	},
	{
		Question:      "Which of the following is NOT protected under copyright?",
		Options:       []string{"Ideas", "Books", "Music", "Paintings"},
		CorrectAnswer: 0,
		Explanation:   "Copyright protects expression, not ideas themselves.",
	},
	{
		Question:      "GI stands for:",
		Options:       []string{"Global Indication", "Geographical Indication", "General Indication", "Government Indication"},
		CorrectAnswer: 1,
		Explanation:   "GI stands for Geographical Indication.",
	},
	{
		Question:      "What is the primary purpose of a trademark?",
		Options:       []string{"Protect inventions", "Identify goods/services", "Protect artistic works", "Protect designs"},
		CorrectAnswer: 1,
		Explanation:   "Trademarks identify and distinguish goods or services.",
	},
	{
		Question:      "Which Indian product was the first to receive GI tag?",
		Options:       []string{"Basmati Rice", "Darjeeling Tea", "Mysore Silk", "Kanchipuram Silk"},
		CorrectAnswer: 1,
		Explanation:   "Darjeeling Tea was the first Indian product to get GI tag in 2003.",
	},
	{
		Question:      "What does 'patent pending' mean?",
		Options:       []string{"Patent granted", "Patent application filed", "Patent rejected", "Patent expired"},
		CorrectAnswer: 1,
		Explanation:   "Patent pending means a patent application has been filed but not yet granted.",
	},
}

// Build assembles the challenge for the calendar day containing now in loc:
// five distinct questions drawn without replacement, valid from midnight to
// midnight. The id is derived from the date, so a rebuild overwrites rather
// than duplicates. Selection is deliberately unseeded.
func Build(now time.Time, loc *time.Location) models.DailyChallenge {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	picks := rand.Perm(len(questionBank))[:questionsPerDay]
	questions := make([]models.Question, 0, questionsPerDay)
	for _, i := range picks {
		questions = append(questions, questionBank[i])
	}

	return models.DailyChallenge{
		ID:        "challenge_" + today.Format("2006-01-02"),
		Date:      today,
		Questions: questions,
		XPReward:  xpReward,
		ExpiresAt: today.AddDate(0, 0, 1),
	}
}

func Run(ctx context.Context, database *sql.DB, loc *time.Location, log *zap.SugaredLogger) error {
	ch := Build(time.Now(), loc)
	if err := db.UpsertDailyChallenge(ctx, database, ch); err != nil {
		return err
	}
	log.Infow("daily challenge generated", "id", ch.ID)
	return nil
}
