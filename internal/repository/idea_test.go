package repository

import (
	"testing"

	"github.com/shagtracker/shagbot/internal/model"
)

func TestIdeaRepository_CreateStampsPinnedClock(t *testing.T) {
	database := testDB(t)
	frozen := freezeClock(t)

	repo := NewIdeaRepository(database)
	err := repo.Create(&model.Idea{TelegramID: 100, Username: strp("anya"), Content: "сделать темную тему"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	idea := &model.Idea{}
	err = database.Get(idea, `SELECT * FROM ideas WHERE telegram_id = $1`, int64(100))
	if err != nil {
		t.Fatalf("failed to read idea back: %v", err)
	}
	if idea.Content != "сделать темную тему" {
		t.Errorf("Content = %q, want the submitted text", idea.Content)
	}
	if !idea.CreatedAt.Equal(frozen) {
		t.Errorf("CreatedAt = %v, want the pinned clock %v", idea.CreatedAt, frozen)
	}
}
