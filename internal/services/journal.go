package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/models"
	"github.com/moodloop/journal-server/internal/repositories"
)

const (
	defaultListLimit = 200
	maxListLimit     = 200
	statsWindow      = 7 * 24 * time.Hour
)

// Journal owns entry creation, listing, deletion, and the weekly mood stats.
// Every operation is scoped to the owning user.
type Journal struct {
	entries repositories.EntryRepository
}

func NewJournal(entries repositories.EntryRepository) *Journal {
	return &Journal{entries: entries}
}

// CreateEntry scores the text on the fast local path and persists the entry.
func (j *Journal) CreateEntry(ctx context.Context, userID uuid.UUID, text, mood string) (*models.Entry, error) {
	if mood == "" {
		mood = "neutral"
	}

	entry := &models.Entry{
		UserID:    userID,
		Text:      text,
		Mood:      mood,
		Sentiment: LocalScore(text),
	}
	if err := j.entries.Create(ctx, entry); err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

// ListEntries returns the user's entries, newest first. Caller-supplied
// limits are clamped to [1, 200] to prevent unbounded scans.
func (j *Journal) ListEntries(ctx context.Context, userID uuid.UUID, limit int) ([]models.Entry, error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, err := j.entries.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

// DeleteEntry removes an entry the user owns; anyone else's entry is
// indistinguishable from a missing one.
func (j *Journal) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	deleted, err := j.entries.Delete(ctx, userID, entryID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !deleted {
		return apperr.NotFound("Entry not found or not yours")
	}
	return nil
}

// WeeklyStats counts entries per mood over the trailing 7 days. The boundary
// is inclusive: an entry exactly 7 days old still counts.
func (j *Journal) WeeklyStats(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	since := time.Now().UTC().Add(-statsWindow)
	stats, err := j.entries.MoodCountsSince(ctx, userID, since)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return stats, nil
}
