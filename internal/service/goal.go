package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

var (
	ErrGoalLimitReached = errors.New("active goal limit reached")
)

// GoalService owns the goal lifecycle: DRAFT → ACTIVE → COMPLETED, the
// 3-active-goal cap, and progress steps.
type GoalService struct {
	repo     repository.GoalRepository
	stepRepo repository.StepRepository
}

func NewGoalService(repo repository.GoalRepository, stepRepo repository.StepRepository) *GoalService {
	return &GoalService{
		repo:     repo,
		stepRepo: stepRepo,
	}
}

// CreateActive creates a goal directly in ACTIVE status with a deadline a
// fixed number of months out. This is the preset-duration wizard exit.
func (s *GoalService) CreateActive(userID, description, category string, months int) (*model.Goal, error) {
	err := s.checkLimit(userID)
	if err != nil {
		return nil, err
	}

	now := clock.Now()
	goal := &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		Description:    description,
		Category:       category,
		DurationMonths: months,
		Deadline:       now.AddDate(0, months, 0),
		Status:         model.GoalStatusActive,
		CreatedAt:      now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// CreateDraft creates the placeholder goal the custom-deadline wizard works
// against. The deadline is a placeholder until Finalize commits a real one.
func (s *GoalService) CreateDraft(userID, description, category string) (*model.Goal, error) {
	err := s.checkLimit(userID)
	if err != nil {
		return nil, err
	}

	now := clock.Now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Category:    category,
		Deadline:    now,
		Status:      model.GoalStatusDraft,
		CreatedAt:   now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft goal: %w", err)
	}
	return goal, nil
}

// Finalize commits the wizard's terminal step: DRAFT flips to ACTIVE with the
// chosen deadline. The flip is conditional on the goal still being DRAFT, so
// replaying the terminal token cannot activate twice; the replay surfaces as
// repository.ErrConflict.
func (s *GoalService) Finalize(goalID string, deadline time.Time) (*model.Goal, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != model.GoalStatusDraft {
		// Replayed terminal token; the conditional update below would catch
		// this too, but answering before the cap check keeps replays benign
		// even when the user is at the limit.
		return nil, repository.ErrConflict
	}

	// The cap is re-checked here because other goals may have gone ACTIVE
	// while the wizard was open.
	err = s.checkLimit(goal.UserID)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateStatusDeadline(goalID, model.GoalStatusDraft, model.GoalStatusActive, deadline)
	if err != nil {
		return nil, err
	}
	return s.repo.ByID(goalID)
}

// Resume reopens a COMPLETED goal with a fresh deadline one month out. This
// is the only transition out of a terminal status.
func (s *GoalService) Resume(goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(goalID)
	if err != nil {
		return nil, err
	}

	err = s.checkLimit(goal.UserID)
	if err != nil {
		return nil, err
	}

	deadline := clock.Now().AddDate(0, 1, 0)
	err = s.repo.UpdateStatusDeadline(goalID, model.GoalStatusCompleted, model.GoalStatusActive, deadline)
	if err != nil {
		return nil, err
	}
	return s.repo.ByID(goalID)
}

func (s *GoalService) ByID(goalID string) (*model.Goal, error) {
	return s.repo.ByID(goalID)
}

func (s *GoalService) ActiveGoals(userID string) ([]*model.Goal, error) {
	return s.repo.ActiveForUser(userID)
}

func (s *GoalService) ActiveMetricGoals(userID string) ([]*model.Goal, error) {
	return s.repo.ActiveWithMetric(userID)
}

func (s *GoalService) CountActive(userID string) (int, error) {
	return s.repo.CountActive(userID)
}

// AddProgress appends a GREEN step carrying a reported metric value.
func (s *GoalService) AddProgress(goalID string, value float64, content string) (*model.Step, error) {
	step := &model.Step{
		GoalID:     goalID,
		Content:    content,
		Evaluation: model.EvaluationGreen,
		Value:      &value,
		CreatedAt:  clock.Now(),
	}

	err := s.stepRepo.Create(step)
	if err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}
	return step, nil
}

func (s *GoalService) checkLimit(userID string) error {
	count, err := s.repo.CountActive(userID)
	if err != nil {
		return err
	}
	if count >= model.MaxActiveGoals {
		return ErrGoalLimitReached
	}
	return nil
}
