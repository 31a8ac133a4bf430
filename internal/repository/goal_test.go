package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/db"
	"github.com/shagtracker/shagbot/internal/model"
)

// testDB opens an in-memory database with the real migrations applied. One
// connection only: each sqlite :memory: connection is its own database.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return database
}

func seedUser(t *testing.T, database *sqlx.DB, telegramID int64, reminderTime *string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		TelegramID:   telegramID,
		ReminderTime: reminderTime,
		CreatedAt:    clock.Now(),
	}
	_, err := database.Exec(
		`INSERT INTO users (id, telegram_id, reminder_time, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.TelegramID, user.ReminderTime, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedGoal(t *testing.T, repo GoalRepository, userID, status string, deadline time.Time) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: "выучить английский",
		Category:    model.CategoryPersonal,
		Deadline:    deadline,
		Status:      status,
		CreatedAt:   clock.Now(),
	}
	err := repo.Create(goal)
	if err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}
	return goal
}

// --- Create / ByID ---

func TestGoalRepository_CreateAndByID(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)

	goal := seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now().AddDate(0, 3, 0))

	got, err := repo.ByID(goal.ID)
	if err != nil {
		t.Fatalf("ByID error: %v", err)
	}
	if got.Description != goal.Description || got.Status != model.GoalStatusActive {
		t.Errorf("ByID = %+v, want seeded goal", got)
	}
}

func TestGoalRepository_ByID_NotFound(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)

	_, err := repo.ByID(uuid.New().String())
	if !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("err = %v, want ErrGoalNotFound", err)
	}
}

// --- Conditional status updates ---

func TestGoalRepository_UpdateStatus_SecondFlipConflicts(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)
	goal := seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now())

	err := repo.UpdateStatus(goal.ID, model.GoalStatusActive, model.GoalStatusCompleted)
	if err != nil {
		t.Fatalf("first flip error: %v", err)
	}

	err = repo.UpdateStatus(goal.ID, model.GoalStatusActive, model.GoalStatusCompleted)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("second flip err = %v, want ErrConflict", err)
	}

	got, _ := repo.ByID(goal.ID)
	if got.Status != model.GoalStatusCompleted {
		t.Errorf("status after conflict = %q, want COMPLETED untouched", got.Status)
	}
}

func TestGoalRepository_UpdateStatusDeadline(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)
	goal := seedGoal(t, repo, user.ID, model.GoalStatusDraft, clock.Now())

	deadline := clock.Now().AddDate(0, 6, 0)
	err := repo.UpdateStatusDeadline(goal.ID, model.GoalStatusDraft, model.GoalStatusActive, deadline)
	if err != nil {
		t.Fatalf("UpdateStatusDeadline error: %v", err)
	}

	got, err := repo.ByID(goal.ID)
	if err != nil {
		t.Fatalf("ByID error: %v", err)
	}
	if got.Status != model.GoalStatusActive {
		t.Errorf("status = %q, want ACTIVE", got.Status)
	}
	if !got.Deadline.Equal(deadline) {
		t.Errorf("deadline = %v, want %v", got.Deadline, deadline)
	}
}

// --- Queries ---

func TestGoalRepository_CountActive_IgnoresDraftsAndCompleted(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)

	seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now())
	seedGoal(t, repo, user.ID, model.GoalStatusDraft, clock.Now())
	seedGoal(t, repo, user.ID, model.GoalStatusCompleted, clock.Now())

	count, err := repo.CountActive(user.ID)
	if err != nil {
		t.Fatalf("CountActive error: %v", err)
	}
	if count != 1 {
		t.Errorf("CountActive = %d, want 1", count)
	}
}

func TestGoalRepository_ActiveWithMetric(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)

	plain := seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now())
	metric := "Вес"
	withMetric := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Description: "похудеть",
		Category:    model.CategoryPersonal,
		Metric:      &metric,
		Deadline:    clock.Now(),
		Status:      model.GoalStatusActive,
		CreatedAt:   clock.Now(),
	}
	err := repo.Create(withMetric)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	goals, err := repo.ActiveWithMetric(user.ID)
	if err != nil {
		t.Fatalf("ActiveWithMetric error: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != withMetric.ID {
		t.Errorf("ActiveWithMetric = %v, want only the metric goal (not %s)", goals, plain.ID)
	}
}

func TestGoalRepository_ActiveWithOwners(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	anya := seedUser(t, database, 100, nil)
	boris := seedUser(t, database, 200, nil)

	kept := seedGoal(t, repo, anya.ID, model.GoalStatusActive, clock.Now().AddDate(0, 3, 0))
	seedGoal(t, repo, boris.ID, model.GoalStatusCompleted, clock.Now().AddDate(0, -1, 0))

	goals, err := repo.ActiveWithOwners()
	if err != nil {
		t.Fatalf("ActiveWithOwners error: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("ActiveWithOwners = %d goals, want only the active one", len(goals))
	}
	if goals[0].ID != kept.ID {
		t.Errorf("goal = %s, want %s", goals[0].ID, kept.ID)
	}
	if goals[0].TelegramID != 100 {
		t.Errorf("TelegramID = %d, want 100", goals[0].TelegramID)
	}
}

func TestGoalRepository_ExpiredActive(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	user := seedUser(t, database, 100, nil)

	overdue := seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now().Add(-time.Hour))
	seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now().Add(time.Hour))

	expired, err := repo.ExpiredActive(clock.Now())
	if err != nil {
		t.Fatalf("ExpiredActive error: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("ExpiredActive = %d goals, want 1", len(expired))
	}
	if expired[0].ID != overdue.ID {
		t.Errorf("expired goal = %s, want %s", expired[0].ID, overdue.ID)
	}
	if expired[0].TelegramID != 100 {
		t.Errorf("TelegramID = %d, want 100", expired[0].TelegramID)
	}
}

// --- Delete ---

func TestGoalRepository_Delete_RemovesSteps(t *testing.T) {
	database := testDB(t)
	repo := NewGoalRepository(database)
	steps := NewStepRepository(database)
	user := seedUser(t, database, 100, nil)
	goal := seedGoal(t, repo, user.ID, model.GoalStatusActive, clock.Now())

	err := steps.Create(&model.Step{GoalID: goal.ID, Content: "шаг", Evaluation: model.EvaluationGreen})
	if err != nil {
		t.Fatalf("step Create error: %v", err)
	}

	err = repo.Delete(goal.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	_, err = repo.ByID(goal.ID)
	if !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("ByID after delete err = %v, want ErrGoalNotFound", err)
	}

	remaining, err := steps.ByGoal(goal.ID)
	if err != nil {
		t.Fatalf("ByGoal error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("steps after delete = %d, want 0", len(remaining))
	}
}
