package repository

import (
	"testing"
	"time"

	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
)

// freezeClock pins clock.Now for the duration of the test.
func freezeClock(t *testing.T) time.Time {
	t.Helper()

	frozen := time.Date(2026, 8, 15, 12, 0, 0, 0, clock.Zone)
	prev := clock.Now
	clock.Now = func() time.Time { return frozen }
	t.Cleanup(func() { clock.Now = prev })
	return frozen
}

func TestStepRepository_CreateStampsPinnedClock(t *testing.T) {
	database := testDB(t)
	frozen := freezeClock(t)

	user := seedUser(t, database, 100, nil)
	goal := seedGoal(t, NewGoalRepository(database), user.ID, model.GoalStatusActive, frozen.AddDate(0, 3, 0))

	repo := NewStepRepository(database)
	err := repo.Create(&model.Step{GoalID: goal.ID, Content: "пробежал 5 км", Evaluation: model.EvaluationGreen})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	steps, err := repo.ByGoal(goal.ID)
	if err != nil {
		t.Fatalf("ByGoal error: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("ByGoal = %d steps, want 1", len(steps))
	}
	if steps[0].ID == "" {
		t.Error("step has no id")
	}
	if !steps[0].CreatedAt.Equal(frozen) {
		t.Errorf("CreatedAt = %v, want the pinned clock %v", steps[0].CreatedAt, frozen)
	}
}
