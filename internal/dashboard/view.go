package dashboard

import (
	"fmt"
	"maps"
	"strings"

	"journal-dashboard/internal/charts"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"
	"journal-dashboard/internal/services"
	"journal-dashboard/internal/utils"
)

// View names used in logs, metrics and notices.
const (
	ViewEntries = "entries"
	ViewStats   = "stats"
	ViewProfile = "profile"
)

type EntryView struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	Label     string `json:"label"`
	Emoji     string `json:"emoji"`
	ScoreText string `json:"score_text"`
	Positive  bool   `json:"positive"`
	When      string `json:"when"`
}

type StatCards struct {
	Total      string `json:"total"`
	Month      string `json:"month"`
	TopEmotion string `json:"top_emotion"`
	Score      string `json:"score"`
}

type ProfileView struct {
	PlanName         string             `json:"plan_name"`
	PlanBadge        string             `json:"plan_badge"`
	Tier             models.PlanTier    `json:"tier"`
	Expired          bool               `json:"expired"`
	EntriesThisMonth int                `json:"entries_this_month"`
	MaxEntries       int                `json:"max_entries"`
	Buttons          models.PlanButtons `json:"buttons"`
}

type FilterView struct {
	Range     query.RangeMode `json:"range"`
	StartDate string          `json:"start_date,omitempty"`
	EndDate   string          `json:"end_date,omitempty"`
}

// View is everything a dashboard page shows. Each part is replaced
// wholesale by the refresh that owns it.
type View struct {
	Greeting       string                   `json:"greeting"`
	Filter         FilterView               `json:"filter"`
	Pagination     query.Pagination         `json:"pagination"`
	Entries        []EntryView              `json:"entries"`
	AnalyticsRange FilterView               `json:"analytics_range"`
	Stats          *StatCards               `json:"stats,omitempty"`
	Insights       []string                 `json:"insights"`
	Profile        *ProfileView             `json:"profile,omitempty"`
	Charts         map[string]charts.Config `json:"charts,omitempty"`
	FormStatus     string                   `json:"form_status,omitempty"`
	Notices        map[string]string        `json:"notices,omitempty"`
	RenderErrors   map[string]string        `json:"render_errors,omitempty"`
	Versions       map[string]uint64        `json:"versions"`
}

func (v View) clone() View {
	out := v
	out.Entries = append([]EntryView(nil), v.Entries...)
	out.Insights = append([]string(nil), v.Insights...)
	if v.Stats != nil {
		stats := *v.Stats
		out.Stats = &stats
	}
	if v.Profile != nil {
		profile := *v.Profile
		out.Profile = &profile
	}
	out.Notices = maps.Clone(v.Notices)
	out.Charts = maps.Clone(v.Charts)
	out.RenderErrors = maps.Clone(v.RenderErrors)
	out.Versions = maps.Clone(v.Versions)
	return out
}

func renderEntries(entries []models.EntryRecord, layout string) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		emoji := utils.EmojiForEmotion(e.EmotionLabel)
		if emoji == "" {
			emoji = e.EmotionEmoji
		}
		when := ""
		if !e.CreatedAt.IsZero() {
			when = e.CreatedAt.Format(layout + ", 3:04:05 PM")
		}
		out = append(out, EntryView{
			ID:        e.ID,
			Content:   utils.SanitizeContent(e.Content),
			Label:     e.EmotionLabel,
			Emoji:     emoji,
			ScoreText: strings.TrimSpace(fmt.Sprintf("%s %s %s", emoji, e.EmotionLabel, utils.FormatPercent(e.EmotionScore))),
			Positive:  e.EmotionScore >= 60,
			When:      when,
		})
	}
	return out
}

func renderStatCards(s *models.StatsSnapshot) *StatCards {
	return &StatCards{
		Total:      utils.FormatCount(s.TotalEntries),
		Month:      utils.FormatCount(s.MonthlyEntries),
		TopEmotion: s.TopEmotion,
		Score:      utils.FormatPercent(s.AvgScore),
	}
}

func renderProfile(p *models.ProfileResponse) *ProfileView {
	tier := models.ParseTier(p.Plan.Name)
	return &ProfileView{
		PlanName:         p.Plan.Name,
		PlanBadge:        strings.ToLower(p.Plan.Name),
		Tier:             tier,
		Expired:          p.SubscriptionExpired,
		EntriesThisMonth: p.Usage.EntriesThisMonth,
		MaxEntries:       p.Plan.MaxEntries,
		Buttons:          services.PresentButtons(tier, p.SubscriptionExpired),
	}
}
