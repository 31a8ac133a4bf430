package model

import (
	"time"
)

const (
	GoalStatusDraft     = "DRAFT"
	GoalStatusActive    = "ACTIVE"
	GoalStatusCompleted = "COMPLETED"
)

const (
	CategoryPersonal = "PERSONAL"
	CategoryBusiness = "BUSINESS"
)

// MaxActiveGoals is the per-user cap on simultaneously ACTIVE goals.
// DRAFT and COMPLETED goals do not count toward it.
const MaxActiveGoals = 3

type Goal struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	Description string `db:"description"`
	Category    string `db:"category"`
	// Metric is the label of the tracked number ("Вес", "Прибыль"), nil when
	// the goal carries no metric. Immutable once set.
	Metric         *string   `db:"metric"`
	DurationMonths int       `db:"duration_months"`
	Deadline       time.Time `db:"deadline"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

func (g *Goal) HasMetric() bool {
	return g.Metric != nil && *g.Metric != ""
}

func (g *Goal) CategoryLabel() string {
	if g.Category == CategoryBusiness {
		return "💼 Деловая"
	}
	return "👤 Личная"
}
