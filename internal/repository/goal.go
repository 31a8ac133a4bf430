package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shagtracker/shagbot/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")

	// ErrConflict means a conditional status update found the goal in a
	// different status than expected. Callers treat it as a benign race and
	// move on.
	ErrConflict = errors.New("goal status conflict")
)

// GoalWithUser carries the owning user's Telegram id alongside the goal, for
// sweeps that have to notify the owner.
type GoalWithUser struct {
	model.Goal
	TelegramID int64   `db:"telegram_id"`
	FirstName  *string `db:"first_name"`
}

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(goalID string) (*model.Goal, error)
	ActiveForUser(userID string) ([]*model.Goal, error)
	ActiveWithMetric(userID string) ([]*model.Goal, error)
	CountActive(userID string) (int, error)
	ActiveWithOwners() ([]*GoalWithUser, error)
	ExpiredActive(now time.Time) ([]*GoalWithUser, error)
	UpdateStatus(goalID, expected, next string) error
	UpdateStatusDeadline(goalID, expected, next string, deadline time.Time) error
	Delete(goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, description, category, metric, duration_months, deadline, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Description,
		goal.Category,
		goal.Metric,
		goal.DurationMonths,
		goal.Deadline,
		goal.Status,
		goal.CreatedAt,
	)
	return err
}

func (r *goalRepository) ByID(goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.db.Get(goal, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

// ActiveForUser returns ACTIVE goals newest first, so index 0 is the most
// recently started one.
func (r *goalRepository) ActiveForUser(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`

	err := r.db.Select(&goals, query, userID, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ActiveWithMetric(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `
		SELECT * FROM goals
		WHERE user_id = $1 AND status = $2 AND metric IS NOT NULL
		ORDER BY created_at DESC
	`
	err := r.db.Select(&goals, query, userID, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) CountActive(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = $2`
	err := r.db.QueryRow(query, userID, model.GoalStatusActive).Scan(&count)
	return count, err
}

// ActiveWithOwners returns every ACTIVE goal joined with its owner, for the
// platform-wide evening broadcast.
func (r *goalRepository) ActiveWithOwners() ([]*GoalWithUser, error) {
	var goals []*GoalWithUser
	query := `
		SELECT g.*, u.telegram_id, u.first_name FROM goals g
		JOIN users u ON u.id = g.user_id
		WHERE g.status = $1
	`
	err := r.db.Select(&goals, query, model.GoalStatusActive)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) ExpiredActive(now time.Time) ([]*GoalWithUser, error) {
	var goals []*GoalWithUser
	query := `
		SELECT g.*, u.telegram_id, u.first_name FROM goals g
		JOIN users u ON u.id = g.user_id
		WHERE g.status = $1 AND g.deadline < $2
	`
	err := r.db.Select(&goals, query, model.GoalStatusActive, now)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// UpdateStatus flips the goal's status only if it currently holds the
// expected one. Losing the race returns ErrConflict; the row is untouched.
func (r *goalRepository) UpdateStatus(goalID, expected, next string) error {
	query := `UPDATE goals SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.Exec(query, next, goalID, expected)
	if err != nil {
		return err
	}
	return conflictUnlessAffected(result)
}

// UpdateStatusDeadline is UpdateStatus plus a new deadline in the same
// conditional write. Used by wizard finalize (DRAFT→ACTIVE) and resume
// (COMPLETED→ACTIVE).
func (r *goalRepository) UpdateStatusDeadline(goalID, expected, next string, deadline time.Time) error {
	query := `UPDATE goals SET status = $1, deadline = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.Exec(query, next, deadline, goalID, expected)
	if err != nil {
		return err
	}
	return conflictUnlessAffected(result)
}

// Delete removes the goal and all its steps.
func (r *goalRepository) Delete(goalID string) error {
	_, err := r.db.Exec(`DELETE FROM steps WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func conflictUnlessAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConflict
	}
	return nil
}
