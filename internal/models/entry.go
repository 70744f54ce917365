package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Timestamp accepts both RFC 3339 values and the zone-less ISO layout the
// journal API emits for created_at.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Format(time.RFC3339))), nil
}

// EmotionScore is one label of an entry's emotion distribution.
type EmotionScore struct {
	Label string  `json:"label" validate:"required"`
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

// EntryRecord is a journal entry as served by the API. Immutable once fetched.
type EntryRecord struct {
	ID           int            `json:"id"`
	Content      string         `json:"content"`
	CreatedAt    Timestamp      `json:"created_at"`
	EmotionLabel string         `json:"emotion_label"`
	EmotionEmoji string         `json:"emotion_emoji,omitempty"`
	EmotionScore float64        `json:"emotion_score" validate:"gte=0,lte=100"`
	Emotions     []EmotionScore `json:"emotions,omitempty" validate:"dive"`
}

// TrendPoint feeds the single-series confidence chart.
type TrendPoint struct {
	CreatedAt Timestamp `json:"created_at"`
	Score     float64   `json:"score"`
}

// MultiTrendPoint feeds the per-emotion chart; Emotions may omit labels that
// other points carry.
type MultiTrendPoint struct {
	CreatedAt Timestamp      `json:"created_at"`
	Emotions  []EmotionScore `json:"emotions" validate:"dive"`
}

// EntriesResponse is the combined entries+trends payload of GET /api/entries.
type EntriesResponse struct {
	Total         int               `json:"total" validate:"gte=0"`
	Limit         int               `json:"limit"`
	Offset        int               `json:"offset"`
	Entries       []EntryRecord     `json:"entries" validate:"required,dive"`
	OriginalTrend []TrendPoint      `json:"original_trend" validate:"required"`
	MultiTrend    []MultiTrendPoint `json:"multi_trend" validate:"required,dive"`
}

type CreateEntryRequest struct {
	Content string `json:"content"`
}
