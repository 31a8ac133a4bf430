package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
)

type StepRepository interface {
	Create(step *model.Step) error
	ByGoal(goalID string) ([]*model.Step, error)
}

type stepRepository struct {
	db *sqlx.DB
}

func NewStepRepository(db *sqlx.DB) StepRepository {
	return &stepRepository{db: db}
}

func (r *stepRepository) Create(step *model.Step) error {
	if step.ID == "" {
		step.ID = uuid.New().String()
	}
	if step.CreatedAt.IsZero() {
		step.CreatedAt = clock.Now()
	}

	query := `
		INSERT INTO steps (id, goal_id, content, evaluation, value, is_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		step.ID,
		step.GoalID,
		step.Content,
		step.Evaluation,
		step.Value,
		step.IsKey,
		step.CreatedAt,
	)
	return err
}

func (r *stepRepository) ByGoal(goalID string) ([]*model.Step, error) {
	var steps []*model.Step
	query := `SELECT * FROM steps WHERE goal_id = $1 ORDER BY created_at`

	err := r.db.Select(&steps, query, goalID)
	if err != nil {
		return nil, err
	}
	return steps, nil
}
