package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/model"
)

// RecordGoal is the goal with the most steps on the whole platform.
type RecordGoal struct {
	Description string  `db:"description" json:"description"`
	StepsCount  int     `db:"steps_count" json:"stepsCount"`
	Username    *string `db:"username" json:"username"`
	FirstName   *string `db:"first_name" json:"firstName"`
}

type Stats struct {
	TotalUsers        int         `json:"totalUsers"`
	UsersWithGoals    int         `json:"usersWithGoals"`
	UsersWithoutGoals int         `json:"usersWithoutGoals"`
	TotalGoals        int         `json:"totalGoals"`
	ActiveGoals       int         `json:"activeGoals"`
	CompletedGoals    int         `json:"completedGoals"`
	TotalSteps        int         `json:"totalSteps"`
	RecordGoal        *RecordGoal `json:"recordGoal"`
}

type StatsRepository interface {
	Totals() (*Stats, error)
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Totals() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&stats.UsersWithGoals, `SELECT COUNT(DISTINCT user_id) FROM goals`, nil},
		{&stats.TotalGoals, `SELECT COUNT(*) FROM goals`, nil},
		{&stats.ActiveGoals, `SELECT COUNT(*) FROM goals WHERE status = $1`, []any{model.GoalStatusActive}},
		{&stats.CompletedGoals, `SELECT COUNT(*) FROM goals WHERE status = $1`, []any{model.GoalStatusCompleted}},
		{&stats.TotalSteps, `SELECT COUNT(*) FROM steps`, nil},
	}

	for _, c := range counts {
		err := r.db.QueryRow(c.query, c.args...).Scan(c.dest)
		if err != nil {
			return nil, err
		}
	}
	stats.UsersWithoutGoals = stats.TotalUsers - stats.UsersWithGoals

	record, err := r.recordGoal()
	if err != nil {
		return nil, err
	}
	stats.RecordGoal = record

	return stats, nil
}

// recordGoal finds the goal with the most steps, zero-step goals included.
// Returns nil when no goals exist at all.
func (r *statsRepository) recordGoal() (*RecordGoal, error) {
	record := &RecordGoal{}
	query := `
		SELECT g.description, COUNT(s.id) AS steps_count, u.username, u.first_name
		FROM goals g
		JOIN users u ON u.id = g.user_id
		LEFT JOIN steps s ON s.goal_id = g.id
		GROUP BY g.id, g.description, u.username, u.first_name
		ORDER BY steps_count DESC
		LIMIT 1
	`
	err := r.db.Get(record, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}
