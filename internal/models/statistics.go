package models

// MoodTrendPoint - average score on a calendar day (YYYY-MM-DD)
type MoodTrendPoint struct {
	Date         string  `json:"date" validate:"required"`
	AverageScore float64 `json:"average_score"`
}

// EmotionCount - number of entries whose top emotion is Label
type EmotionCount struct {
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Count int    `json:"count" validate:"gte=0"`
}

// WeekdayScore - average score for a day of the week, Monday first
type WeekdayScore struct {
	Day          string  `json:"day" validate:"required"`
	AverageScore float64 `json:"average_score"`
}

// EmotionPair - how often two emotions appear in the same entry
type EmotionPair struct {
	Pair  string `json:"pair" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

// StatsSnapshot - aggregate statistics of GET /api/stats, replaced wholesale per fetch
type StatsSnapshot struct {
	TotalEntries        int              `json:"total_entries" validate:"gte=0"`
	MonthlyEntries      int              `json:"monthly_entries" validate:"gte=0"`
	TopEmotion          string           `json:"top_emotion"`
	AvgScore            float64          `json:"avg_score" validate:"gte=0,lte=100"`
	MoodTrend           []MoodTrendPoint `json:"mood_trend" validate:"required,dive"`
	EmotionDistribution []EmotionCount   `json:"emotion_distribution" validate:"required,dive"`
	WeeklyPattern       []WeekdayScore   `json:"weekly_mood_pattern" validate:"required,dive"`
	EmotionCorrelation  []EmotionPair    `json:"emotion_correlation" validate:"required,dive"`
}

// Plan - subscription plan as described by GET /api/profile
type Plan struct {
	Name         string   `json:"name" validate:"required"`
	MaxEntries   int      `json:"max_entries" validate:"gte=0"`
	MonthlyPrice float64  `json:"monthly_price,omitempty"`
	HistoryDays  int      `json:"history_days,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// Usage - monthly entry usage
type Usage struct {
	EntriesThisMonth int `json:"entries_this_month" validate:"gte=0"`
	EntriesRemaining int `json:"entries_remaining,omitempty"`
	MaxEntries       int `json:"max_entries,omitempty"`
}

// ProfileResponse - GET /api/profile
type ProfileResponse struct {
	User                *UserRecord `json:"user,omitempty"`
	Plan                Plan        `json:"plan"`
	Usage               Usage       `json:"usage"`
	SubscriptionExpired bool        `json:"subscription_expired,omitempty"`
}
