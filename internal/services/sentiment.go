package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/clients"
)

// recentEntryCount is how many of a user's newest entries feed the
// personality profile.
const recentEntryCount = 20

var positiveWords = []string{
	"happy", "relieved", "good", "better", "calm",
	"hopeful", "grateful", "love", "excited",
}

var negativeWords = []string{
	"sad", "depressed", "anxious", "angry", "hopeless",
	"worthless", "tired", "lonely", "hate",
}

// LocalScore is the fast sentiment path backing synchronous entry creation:
// positive lexicon hits minus negative hits, case-insensitive substring
// matching. Pure, no I/O.
func LocalScore(text string) int {
	t := strings.ToLower(text)
	score := 0
	for _, w := range positiveWords {
		if strings.Contains(t, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(t, w) {
			score--
		}
	}
	return score
}

// ErrNoContent is returned when the joined entry texts are empty.
var ErrNoContent = apperr.Validation("Entries contain no text to analyze")

// Analyzer is the remote profiling dependency.
type Analyzer interface {
	Predict(ctx context.Context, text string) (clients.PersonalityProfile, error)
	AnalyzeEntries(ctx context.Context, texts []string) (clients.PersonalityProfile, error)
}

// EntryTextSource supplies the newest entry texts for a user.
type EntryTextSource interface {
	RecentTexts(ctx context.Context, userID uuid.UUID, n int) ([]string, error)
}

// Sentiment combines the local lexicon score with best-effort remote
// profiling. Remote failures come back as error values; they must never fail
// the parent request.
type Sentiment struct {
	analyzer Analyzer
	texts    EntryTextSource
	group    singleflight.Group
	log      zerolog.Logger
}

func NewSentiment(analyzer Analyzer, texts EntryTextSource, log zerolog.Logger) *Sentiment {
	return &Sentiment{analyzer: analyzer, texts: texts, log: log}
}

// RemoteProfile profiles a single text via the analyzer.
func (s *Sentiment) RemoteProfile(ctx context.Context, text string) (clients.PersonalityProfile, error) {
	profile, err := s.analyzer.Predict(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Msg("analyzer predict failed")
		return nil, err
	}
	return profile, nil
}

// ProfileFromEntries joins the texts with single spaces and profiles the
// combined document.
func (s *Sentiment) ProfileFromEntries(ctx context.Context, texts []string) (clients.PersonalityProfile, error) {
	combined := strings.Join(texts, " ")
	if strings.TrimSpace(combined) == "" {
		return nil, ErrNoContent
	}

	profile, err := s.analyzer.AnalyzeEntries(ctx, texts)
	if err != nil {
		s.log.Warn().Err(err).Msg("analyzer batch failed")
		return nil, err
	}
	return profile, nil
}

// UserProfile recomputes the profile from the user's newest entries.
// Concurrent requests for the same user share one upstream call.
// A user with no entries gets a nil profile and no error.
func (s *Sentiment) UserProfile(ctx context.Context, userID uuid.UUID) (clients.PersonalityProfile, error) {
	// The shared call outlives any single caller, so it must not inherit the
	// first caller's cancellation. The analyzer client enforces its own
	// timeout.
	ctx = context.WithoutCancel(ctx)

	v, err, _ := s.group.Do(userID.String(), func() (any, error) {
		texts, err := s.texts.RecentTexts(ctx, userID, recentEntryCount)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if len(texts) == 0 {
			return clients.PersonalityProfile(nil), nil
		}
		return s.ProfileFromEntries(ctx, texts)
	})
	if err != nil {
		return nil, err
	}
	return v.(clients.PersonalityProfile), nil
}
