package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodloop/journal-server/internal/models"
)

func newEntryRepo(t *testing.T) EntryRepository {
	t.Helper()
	db, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	return NewEntryRepository(db)
}

func TestListByUserOrdersNewestFirst(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Now().UTC()
	for i, text := range []string{"oldest", "middle", "newest"} {
		entry := &models.Entry{
			UserID:    userID,
			Text:      text,
			Mood:      "neutral",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	entries, err := repo.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "newest", entries[0].Text)
	assert.Equal(t, "oldest", entries[2].Text)

	limited, err := repo.ListByUser(ctx, userID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListByUserScopesToOwner(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, &models.Entry{UserID: alice, Text: "mine", Mood: "calm"}))

	entries, err := repo.ListByUser(ctx, bob, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	entry := &models.Entry{UserID: alice, Text: "I am tired and lonely", Mood: "sad"}
	require.NoError(t, repo.Create(ctx, entry))

	// Another user deleting by the same id removes nothing.
	deleted, err := repo.Delete(ctx, bob, entry.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	remaining, err := repo.ListByUser(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)

	deleted, err = repo.Delete(ctx, alice, entry.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err = repo.ListByUser(ctx, alice, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMoodCountsSinceBoundary(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	entries := []struct {
		mood string
		age  time.Duration
	}{
		{"happy", time.Hour},
		{"happy", 3 * 24 * time.Hour},
		{"sad", 6 * 24 * time.Hour},
		{"sad", 7*24*time.Hour + time.Second}, // just outside the window
		{"angry", 10 * 24 * time.Hour},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, &models.Entry{
			UserID:    userID,
			Text:      "entry",
			Mood:      e.mood,
			CreatedAt: now.Add(-e.age),
		}))
	}

	stats, err := repo.MoodCountsSince(ctx, userID, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"happy": 2, "sad": 1}, stats)
}

func TestMoodCountsSinceInclusiveAtExactlySevenDays(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()
	since := now.Add(-7 * 24 * time.Hour)

	require.NoError(t, repo.Create(ctx, &models.Entry{
		UserID:    userID,
		Text:      "boundary",
		Mood:      "calm",
		CreatedAt: since,
	}))

	stats, err := repo.MoodCountsSince(ctx, userID, since)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"calm": 1}, stats)
}

func TestRecentTexts(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, &models.Entry{
			UserID:    userID,
			Text:      "entry",
			Mood:      "neutral",
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	texts, err := repo.RecentTexts(ctx, userID, 20)
	require.NoError(t, err)
	assert.Len(t, texts, 20)
}
