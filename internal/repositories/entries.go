package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodloop/journal-server/internal/models"
)

type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Entry, error)
	// Delete removes the entry only when both id and owner match. Returns
	// false when nothing was removed.
	Delete(ctx context.Context, userID, entryID uuid.UUID) (bool, error)
	// MoodCountsSince counts entries per mood with createdAt >= since.
	MoodCountsSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error)
	// RecentTexts returns the texts of the newest n entries, newest first.
	RecentTexts(ctx context.Context, userID uuid.UUID, n int) ([]string, error)
}

type entryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepository) Delete(ctx context.Context, userID, entryID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.Entry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *entryRepository) MoodCountsSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int, error) {
	var rows []struct {
		Mood  string
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Select("mood, COUNT(*) as count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("mood").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int, len(rows))
	for _, row := range rows {
		stats[row.Mood] = row.Count
	}
	return stats, nil
}

func (r *entryRepository) RecentTexts(ctx context.Context, userID uuid.UUID, n int) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Pluck("text", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}
