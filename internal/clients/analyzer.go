package clients

import (
	"context"
	"time"
)

const analyzerTimeout = 15 * time.Second

// PersonalityProfile maps trait names (Extraversion, Neuroticism, ...) to
// percentages. It is derived on demand and never persisted.
type PersonalityProfile map[string]float64

// AnalyzerClient talks to the personality analyzer. All of its results are
// best-effort enrichment; callers must degrade gracefully on error.
type AnalyzerClient struct {
	up *Upstream
}

func NewAnalyzerClient(baseURL string) *AnalyzerClient {
	return &AnalyzerClient{up: NewUpstream(baseURL, analyzerTimeout)}
}

type analyzerResponse struct {
	AnalyzedEntryCount int                `json:"analyzed_entry_count"`
	PersonalityProfile PersonalityProfile `json:"personality_profile"`
}

// Predict profiles a single text.
func (c *AnalyzerClient) Predict(ctx context.Context, text string) (PersonalityProfile, error) {
	var resp analyzerResponse
	body := struct {
		Text string `json:"text"`
	}{Text: text}

	if err := c.up.PostJSON(ctx, "/predict", body, &resp); err != nil {
		return nil, err
	}
	return resp.PersonalityProfile, nil
}

// AnalyzeEntries profiles a batch of entry texts as one combined document.
func (c *AnalyzerClient) AnalyzeEntries(ctx context.Context, texts []string) (PersonalityProfile, error) {
	var resp analyzerResponse
	body := struct {
		Entries []string `json:"entries"`
	}{Entries: texts}

	if err := c.up.PostJSON(ctx, "/analyze_entries", body, &resp); err != nil {
		return nil, err
	}
	return resp.PersonalityProfile, nil
}
