// Package insights turns aggregate statistics into highlight sentences.
package insights

import (
	"fmt"

	"journal-dashboard/internal/models"
	"journal-dashboard/internal/utils"
)

// MinEntries is the number of entries below which no conclusions are drawn.
const MinEntries = 5

const Placeholder = "Keep writing! Your insights will appear here after we analyze more of your entries."

// Generate returns the highlights for stats in a fixed order: overall mood,
// top emotion, weekly pattern, strongest emotion pair (when any).
func Generate(stats models.StatsSnapshot) []string {
	if stats.TotalEntries < MinEntries {
		return []string{Placeholder}
	}

	out := []string{
		moodInsight(stats.AvgScore),
		fmt.Sprintf("🎯 Top Emotion: The emotion you've expressed most frequently is **%s**. This is a central theme in your recent entries.", stats.TopEmotion),
		weeklyInsight(stats.WeeklyPattern),
	}
	if pair, ok := TopPair(stats.EmotionCorrelation); ok {
		out = append(out, fmt.Sprintf("🔗 Emotion Correlation: You most frequently express the emotions **%s** together (%d entries). This suggests these feelings are closely linked in your journal entries.", pair.Pair, pair.Count))
	}
	return out
}

func moodInsight(avg float64) string {
	score := utils.FormatPercent(avg)
	var text string
	switch {
	case avg > 75:
		text = fmt.Sprintf("Your overall mood has been **very positive**, averaging a score of **%s** in this period. Great job on maintaining a high emotional state!", score)
	case avg > 50:
		text = fmt.Sprintf("Your overall mood has been **generally positive**, averaging a score of **%s**. This is a great baseline!", score)
	default:
		text = fmt.Sprintf("Your overall mood has been **neutral to low**, averaging a score of **%s**. Consider reflecting on what might be causing this trend.", score)
	}
	return "📊 Overall Mood: " + text
}

func weeklyInsight(days []models.WeekdayScore) string {
	maxDay, minDay, ok := WeeklyExtremes(days)
	if !ok {
		return "📅 Weekly Pattern: There is not enough data yet to find a weekly pattern."
	}
	return fmt.Sprintf("📅 Weekly Pattern: Your mood tends to be highest on **%s** (%s) and lowest on **%s** (%s). This might indicate a recurring weekly cycle or a pattern related to your schedule.",
		maxDay.Day, utils.FormatPercent(maxDay.AverageScore), minDay.Day, utils.FormatPercent(minDay.AverageScore))
}

// WeeklyExtremes finds the highest and lowest scoring days in one pass.
// Ties keep the earliest day. ok is false for an empty pattern.
func WeeklyExtremes(days []models.WeekdayScore) (maxDay, minDay models.WeekdayScore, ok bool) {
	if len(days) == 0 {
		return models.WeekdayScore{}, models.WeekdayScore{}, false
	}
	maxDay, minDay = days[0], days[0]
	for _, d := range days[1:] {
		if d.AverageScore > maxDay.AverageScore {
			maxDay = d
		}
		if d.AverageScore < minDay.AverageScore {
			minDay = d
		}
	}
	return maxDay, minDay, true
}

// TopPair returns the pair with the highest count, earliest on ties.
func TopPair(pairs []models.EmotionPair) (models.EmotionPair, bool) {
	if len(pairs) == 0 {
		return models.EmotionPair{}, false
	}
	top := pairs[0]
	for _, p := range pairs[1:] {
		if p.Count > top.Count {
			top = p
		}
	}
	return top, true
}
