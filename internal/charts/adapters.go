package charts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"journal-dashboard/internal/models"
	"journal-dashboard/internal/utils"
)

// Canvas ids of the dashboard charts.
const (
	CanvasMoodTrend           = "moodTrendChart"
	CanvasEmotionDistribution = "emotionDistributionChart"
	CanvasWeeklyMood          = "weeklyMoodChart"
	CanvasEmotionCorrelation  = "emotionCorrelationChart"
	CanvasOriginalTrend       = "chartOriginal"
	CanvasMultiTrend          = "chartMulti"
)

var (
	distributionColors = []string{"#f56565", "#4fd1c5", "#f6e05e", "#68d391", "#805ad5", "#ed8936"}
	seriesPalette      = []string{"#60a5fa", "#34d399", "#f59e0b", "#ef4444", "#a78bfa", "#f472b6", "#22d3ee", "#f87171"}
)

func value(v float64) *float64 {
	return &v
}

func axisTitle(text string) map[string]any {
	return map[string]any{"display": true, "text": text}
}

// formatDay reformats a YYYY-MM-DD day with layout; unparsable input is kept.
func formatDay(day, layout string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format(layout)
}

// paletteColor returns the i-th series color, as rgba when alpha < 1.
func paletteColor(i int, alpha float64) string {
	base := seriesPalette[i%len(seriesPalette)]
	if alpha >= 1 {
		return base
	}
	rgb, _ := strconv.ParseUint(strings.TrimPrefix(base, "#"), 16, 32)
	r, g, b := (rgb>>16)&255, (rgb>>8)&255, rgb&255
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// MoodTrendConfig renders the daily average score as a line.
func MoodTrendConfig(points []models.MoodTrendPoint, layout string) Config {
	labels := make([]string, len(points))
	data := make([]*float64, len(points))
	for i, p := range points {
		labels[i] = formatDay(p.Date, layout)
		data[i] = value(p.AverageScore)
	}
	return Config{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:       "Average Mood Score",
				Data:        data,
				BorderColor: "#4299e1",
				Tension:     0.1,
			}},
		},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"scales": map[string]any{
				"y": map[string]any{"beginAtZero": true, "title": axisTitle("Score")},
				"x": map[string]any{"title": axisTitle("Date")},
			},
		},
	}
}

// EmotionDistributionConfig renders entry counts per emotion as a pie.
func EmotionDistributionConfig(counts []models.EmotionCount) Config {
	labels := make([]string, len(counts))
	data := make([]*float64, len(counts))
	for i, c := range counts {
		labels[i] = strings.TrimSpace(c.Label + " " + c.Emoji)
		data[i] = value(float64(c.Count))
	}
	return Config{
		Type: "pie",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Emotion Count",
				Data:            data,
				BackgroundColor: distributionColors,
			}},
		},
		Options: map[string]any{"responsive": true, "maintainAspectRatio": false},
	}
}

// WeeklyMoodConfig renders the average score per weekday as bars.
func WeeklyMoodConfig(days []models.WeekdayScore) Config {
	labels := make([]string, len(days))
	data := make([]*float64, len(days))
	for i, d := range days {
		labels[i] = d.Day
		data[i] = value(d.AverageScore)
	}
	return Config{
		Type: "bar",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Average Score by Day of the Week",
				Data:            data,
				BackgroundColor: "#38b2ac",
			}},
		},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"scales": map[string]any{
				"y": map[string]any{"beginAtZero": true, "title": axisTitle("Average Score")},
				"x": map[string]any{"title": axisTitle("Day of the Week")},
			},
		},
	}
}

// EmotionCorrelationConfig renders pair frequencies as horizontal bars.
func EmotionCorrelationConfig(pairs []models.EmotionPair) Config {
	labels := make([]string, len(pairs))
	data := make([]*float64, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Pair
		data[i] = value(float64(p.Count))
	}
	return Config{
		Type: "bar",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Emotion Pair Frequency",
				Data:            data,
				BackgroundColor: "#6b46c1",
			}},
		},
		Options: map[string]any{
			"responsive":          true,
			"maintainAspectRatio": false,
			"indexAxis":           "y",
			"scales": map[string]any{
				"x": map[string]any{"beginAtZero": true, "title": axisTitle("Frequency")},
				"y": map[string]any{"title": axisTitle("Emotion Pairs")},
			},
		},
	}
}

// OriginalTrendConfig renders the top-emotion confidence of each entry.
func OriginalTrendConfig(points []models.TrendPoint, layout string) Config {
	labels := make([]string, len(points))
	data := make([]*float64, len(points))
	for i, p := range points {
		labels[i] = p.CreatedAt.Format(layout)
		data[i] = value(p.Score)
	}
	return Config{
		Type: "line",
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Label:           "Top emotion confidence (%)",
				Data:            data,
				BorderColor:     paletteColor(0, 1),
				BackgroundColor: paletteColor(0, 0.15),
				Fill:            true,
				Tension:         0.3,
			}},
		},
		Options: map[string]any{"responsive": true},
	}
}

// MultiTrendConfig renders one line per emotion label. The label set is the
// union over all points in first-seen order; a point without a label yields
// a nil (gap) in that series and gaps are not bridged.
func MultiTrendConfig(points []models.MultiTrendPoint, layout string) Config {
	labels := make([]string, len(points))
	var order []string
	seen := make(map[string]bool)
	for i, p := range points {
		labels[i] = p.CreatedAt.Format(layout)
		for _, em := range p.Emotions {
			if !seen[em.Label] {
				seen[em.Label] = true
				order = append(order, em.Label)
			}
		}
	}

	datasets := make([]Dataset, len(order))
	for idx, label := range order {
		data := make([]*float64, len(points))
		for i, p := range points {
			for _, em := range p.Emotions {
				if em.Label == label {
					data[i] = value(em.Score)
					break
				}
			}
		}
		datasets[idx] = Dataset{
			Label:           utils.EmotionLegend(label),
			Data:            data,
			BorderColor:     paletteColor(idx, 1),
			BackgroundColor: paletteColor(idx, 0.15),
			Tension:         0.3,
			SpanGaps:        false,
		}
	}

	return Config{
		Type:    "line",
		Data:    Data{Labels: labels, Datasets: datasets},
		Options: map[string]any{"responsive": true},
	}
}
