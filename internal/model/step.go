package model

import (
	"time"
)

const (
	EvaluationGreen  = "GREEN"
	EvaluationYellow = "YELLOW"
	EvaluationRed    = "RED"
)

// Step is an append-only progress entry against a goal, ordered by CreatedAt.
type Step struct {
	ID         string    `db:"id"`
	GoalID     string    `db:"goal_id"`
	Content    string    `db:"content"`
	Evaluation string    `db:"evaluation"`
	// Value is present only when the parent goal has a metric.
	Value     *float64  `db:"value"`
	IsKey     bool      `db:"is_key"`
	CreatedAt time.Time `db:"created_at"`
}
