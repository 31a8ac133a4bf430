package repository

import (
	"testing"

	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
)

func TestStatsRepository_Totals(t *testing.T) {
	database := testDB(t)
	goals := NewGoalRepository(database)
	steps := NewStepRepository(database)

	anya := seedUser(t, database, 100, nil)
	boris := seedUser(t, database, 200, nil)
	seedUser(t, database, 300, nil) // never set a goal

	active := seedGoal(t, goals, anya.ID, model.GoalStatusActive, clock.Now().AddDate(0, 3, 0))
	seedGoal(t, goals, boris.ID, model.GoalStatusCompleted, clock.Now().AddDate(0, -1, 0))

	for i := 0; i < 3; i++ {
		err := steps.Create(&model.Step{GoalID: active.ID, Content: "шаг", Evaluation: model.EvaluationGreen})
		if err != nil {
			t.Fatalf("failed to seed step: %v", err)
		}
	}

	stats, err := NewStatsRepository(database).Totals()
	if err != nil {
		t.Fatalf("Totals error: %v", err)
	}

	if stats.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", stats.TotalUsers)
	}
	if stats.UsersWithGoals != 2 {
		t.Errorf("UsersWithGoals = %d, want 2", stats.UsersWithGoals)
	}
	if stats.UsersWithoutGoals != 1 {
		t.Errorf("UsersWithoutGoals = %d, want 1", stats.UsersWithoutGoals)
	}
	if stats.TotalGoals != 2 || stats.ActiveGoals != 1 || stats.CompletedGoals != 1 {
		t.Errorf("goal counts = %d/%d/%d, want 2/1/1", stats.TotalGoals, stats.ActiveGoals, stats.CompletedGoals)
	}
	if stats.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, want 3", stats.TotalSteps)
	}
	if stats.RecordGoal == nil {
		t.Fatal("RecordGoal is nil, want the goal with the most steps")
	}
	if stats.RecordGoal.StepsCount != 3 {
		t.Errorf("RecordGoal.StepsCount = %d, want 3", stats.RecordGoal.StepsCount)
	}
}

func TestStatsRepository_Totals_EmptyPlatform(t *testing.T) {
	stats, err := NewStatsRepository(testDB(t)).Totals()
	if err != nil {
		t.Fatalf("Totals error: %v", err)
	}
	if stats.TotalUsers != 0 || stats.UsersWithoutGoals != 0 {
		t.Errorf("user counts = %d/%d, want 0/0", stats.TotalUsers, stats.UsersWithoutGoals)
	}
	if stats.RecordGoal != nil {
		t.Errorf("RecordGoal = %+v, want nil when no goals exist", stats.RecordGoal)
	}
}
