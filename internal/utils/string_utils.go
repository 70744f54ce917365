package utils

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeContent strips markup from entry text so it can be shown as plain text.
func SanitizeContent(s string) string {
	s = strictPolicy.Sanitize(s)
	// bluemonday escapes entities; the view model carries plain text
	return html.UnescapeString(s)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldText lowercases s and removes diacritics, for accent-insensitive matching.
func FoldText(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

var emotionEmojis = map[string]string{
	"joy":       "😄",
	"happiness": "😄",
	"sad":       "😢",
	"sadness":   "😢",
	"anger":     "😠",
	"angry":     "😠",
	"fear":      "😨",
	"surprise":  "😲",
	"disgust":   "🤢",
	"love":      "❤️",
	"neutral":   "😐",
	"mixed":     "😶",
}

// EmojiForEmotion returns the emoji of an emotion label, or "" when unknown.
func EmojiForEmotion(label string) string {
	if label == "" {
		return ""
	}
	return emotionEmojis[strings.ToLower(label)]
}

// EmotionLegend joins emoji and label the way legends and badges show them.
func EmotionLegend(label string) string {
	return strings.TrimSpace(EmojiForEmotion(label) + " " + label)
}
