package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shagtracker/shagbot/internal/clock"
	"github.com/shagtracker/shagbot/internal/model"
	"github.com/shagtracker/shagbot/internal/repository"
)

func init() {
	// Freeze time for deterministic tests.
	clock.Now = func() time.Time {
		return time.Date(2026, 8, 15, 12, 0, 0, 0, clock.Zone)
	}
}

// --- Fakes ---

type fakeGoalRepo struct {
	goals       map[string]*model.Goal
	activeCount int
	updateErr   error
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[string]*model.Goal{}}
}

func (f *fakeGoalRepo) Create(goal *model.Goal) error {
	f.goals[goal.ID] = goal
	return nil
}

func (f *fakeGoalRepo) ByID(goalID string) (*model.Goal, error) {
	goal, ok := f.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	copied := *goal
	return &copied, nil
}

func (f *fakeGoalRepo) ActiveForUser(userID string) ([]*model.Goal, error) {
	var out []*model.Goal
	for _, g := range f.goals {
		if g.UserID == userID && g.Status == model.GoalStatusActive {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) ActiveWithMetric(userID string) ([]*model.Goal, error) {
	var out []*model.Goal
	for _, g := range f.goals {
		if g.UserID == userID && g.Status == model.GoalStatusActive && g.HasMetric() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) CountActive(userID string) (int, error) {
	return f.activeCount, nil
}

func (f *fakeGoalRepo) ActiveWithOwners() ([]*repository.GoalWithUser, error) {
	return nil, nil
}

func (f *fakeGoalRepo) ExpiredActive(now time.Time) ([]*repository.GoalWithUser, error) {
	return nil, nil
}

func (f *fakeGoalRepo) UpdateStatus(goalID, expected, next string) error {
	return f.conditionalUpdate(goalID, expected, next, nil)
}

func (f *fakeGoalRepo) UpdateStatusDeadline(goalID, expected, next string, deadline time.Time) error {
	return f.conditionalUpdate(goalID, expected, next, &deadline)
}

func (f *fakeGoalRepo) conditionalUpdate(goalID, expected, next string, deadline *time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	goal, ok := f.goals[goalID]
	if !ok || goal.Status != expected {
		return repository.ErrConflict
	}
	goal.Status = next
	if deadline != nil {
		goal.Deadline = *deadline
	}
	return nil
}

func (f *fakeGoalRepo) Delete(goalID string) error {
	delete(f.goals, goalID)
	return nil
}

type fakeStepRepo struct {
	steps []*model.Step
}

func (f *fakeStepRepo) Create(step *model.Step) error {
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakeStepRepo) ByGoal(goalID string) ([]*model.Step, error) {
	var out []*model.Step
	for _, s := range f.steps {
		if s.GoalID == goalID {
			out = append(out, s)
		}
	}
	return out, nil
}

func testService() (*GoalService, *fakeGoalRepo, *fakeStepRepo) {
	goals := newFakeGoalRepo()
	steps := &fakeStepRepo{}
	return NewGoalService(goals, steps), goals, steps
}

// --- CreateActive ---

func TestCreateActive_SetsDeadlineMonthsOut(t *testing.T) {
	svc, _, _ := testService()

	goal, err := svc.CreateActive("user-1", "спорт", model.CategoryPersonal, 6)
	if err != nil {
		t.Fatalf("CreateActive error: %v", err)
	}
	if goal.Status != model.GoalStatusActive {
		t.Errorf("Status = %q, want ACTIVE", goal.Status)
	}
	want := time.Date(2027, 2, 15, 12, 0, 0, 0, clock.Zone)
	if !goal.Deadline.Equal(want) {
		t.Errorf("Deadline = %v, want %v", goal.Deadline, want)
	}
	if goal.ID == "" {
		t.Error("goal has no id")
	}
}

func TestCreateActive_AtLimit(t *testing.T) {
	svc, repo, _ := testService()
	repo.activeCount = model.MaxActiveGoals

	_, err := svc.CreateActive("user-1", "спорт", model.CategoryPersonal, 3)
	if !errors.Is(err, ErrGoalLimitReached) {
		t.Errorf("err = %v, want ErrGoalLimitReached", err)
	}
}

// --- CreateDraft / Finalize ---

func TestFinalize_ActivatesDraft(t *testing.T) {
	svc, _, _ := testService()

	draft, err := svc.CreateDraft("user-1", "цель", model.CategoryBusiness)
	if err != nil {
		t.Fatalf("CreateDraft error: %v", err)
	}
	if draft.Status != model.GoalStatusDraft {
		t.Fatalf("draft Status = %q, want DRAFT", draft.Status)
	}

	deadline := time.Date(2027, 5, 20, 18, 0, 0, 0, clock.Zone)
	goal, err := svc.Finalize(draft.ID, deadline)
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if goal.Status != model.GoalStatusActive {
		t.Errorf("Status = %q, want ACTIVE", goal.Status)
	}
	if !goal.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v, want %v", goal.Deadline, deadline)
	}
}

func TestFinalize_ReplayReturnsConflict(t *testing.T) {
	svc, _, _ := testService()

	draft, _ := svc.CreateDraft("user-1", "цель", model.CategoryPersonal)
	deadline := time.Date(2027, 5, 20, 18, 0, 0, 0, clock.Zone)
	_, err := svc.Finalize(draft.ID, deadline)
	if err != nil {
		t.Fatalf("first Finalize error: %v", err)
	}

	_, err = svc.Finalize(draft.ID, deadline)
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("replayed Finalize err = %v, want ErrConflict", err)
	}
}

func TestFinalize_ReplayAtLimitStillConflict(t *testing.T) {
	// Replaying the commit of an already-active goal must look like a replay,
	// not like hitting the cap.
	svc, repo, _ := testService()

	draft, _ := svc.CreateDraft("user-1", "цель", model.CategoryPersonal)
	deadline := time.Date(2027, 5, 20, 18, 0, 0, 0, clock.Zone)
	_, err := svc.Finalize(draft.ID, deadline)
	if err != nil {
		t.Fatalf("first Finalize error: %v", err)
	}

	repo.activeCount = model.MaxActiveGoals
	_, err = svc.Finalize(draft.ID, deadline)
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("replay at limit err = %v, want ErrConflict", err)
	}
}

func TestFinalize_CapRecheckedBeforeActivation(t *testing.T) {
	svc, repo, _ := testService()

	draft, _ := svc.CreateDraft("user-1", "цель", model.CategoryPersonal)
	repo.activeCount = model.MaxActiveGoals

	_, err := svc.Finalize(draft.ID, clock.Now().AddDate(0, 3, 0))
	if !errors.Is(err, ErrGoalLimitReached) {
		t.Errorf("err = %v, want ErrGoalLimitReached", err)
	}
}

func TestFinalize_UnknownGoal(t *testing.T) {
	svc, _, _ := testService()

	_, err := svc.Finalize("missing", clock.Now())
	if !errors.Is(err, repository.ErrGoalNotFound) {
		t.Errorf("err = %v, want ErrGoalNotFound", err)
	}
}

// --- Resume ---

func TestResume_ReopensCompletedGoal(t *testing.T) {
	svc, repo, _ := testService()

	goal, _ := svc.CreateActive("user-1", "цель", model.CategoryPersonal, 3)
	repo.goals[goal.ID].Status = model.GoalStatusCompleted

	resumed, err := svc.Resume(goal.ID)
	if err != nil {
		t.Fatalf("Resume error: %v", err)
	}
	if resumed.Status != model.GoalStatusActive {
		t.Errorf("Status = %q, want ACTIVE", resumed.Status)
	}
	want := time.Date(2026, 9, 15, 12, 0, 0, 0, clock.Zone)
	if !resumed.Deadline.Equal(want) {
		t.Errorf("Deadline = %v, want one month out (%v)", resumed.Deadline, want)
	}
}

func TestResume_AlreadyActiveConflicts(t *testing.T) {
	svc, _, _ := testService()

	goal, _ := svc.CreateActive("user-1", "цель", model.CategoryPersonal, 3)
	_, err := svc.Resume(goal.ID)
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("resuming an ACTIVE goal err = %v, want ErrConflict", err)
	}
}

// --- AddProgress ---

func TestAddProgress_RecordsGreenStepWithValue(t *testing.T) {
	svc, _, steps := testService()

	step, err := svc.AddProgress("goal-1", 5.5, "Внесено значение: 5.5")
	if err != nil {
		t.Fatalf("AddProgress error: %v", err)
	}
	if len(steps.steps) != 1 {
		t.Fatalf("steps recorded = %d, want 1", len(steps.steps))
	}
	if step.Evaluation != model.EvaluationGreen {
		t.Errorf("Evaluation = %q, want GREEN", step.Evaluation)
	}
	if step.Value == nil || *step.Value != 5.5 {
		t.Errorf("Value = %v, want 5.5", step.Value)
	}
}
