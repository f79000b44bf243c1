// Package advisor is a small in-memory advisory backend. It serves the chat
// API the client consumes and answers with keyword-matched canned advice,
// which makes the client usable without the real service.
package advisor

import (
	"fmt"
	"strings"

	"github.com/guilhermegouw/agrochat/internal/message"
)

// Alert is an alert attached to a reply.
type Alert struct {
	Level   message.AlertLevel `json:"level"`
	Message string             `json:"message"`
}

// Reply is canned advice for one question.
type Reply struct {
	Text   string              `json:"answer"`
	Tables []message.TableData `json:"tables,omitempty"`
	Alerts []Alert             `json:"alerts,omitempty"`
}

var fertilizerTable = message.TableData{
	Headers: []string{"Nutrient", "Application Rate (kg/ha)", "Timing", "Method"},
	Rows: [][]string{
		{"Nitrogen (N)", "120-150", "Pre-planting & Mid-season", "Broadcast & Side-dress"},
		{"Phosphorus (P)", "60-80", "Pre-planting", "Incorporate into soil"},
		{"Potassium (K)", "80-100", "Pre-planting", "Broadcast"},
		{"Sulfur (S)", "20-30", "Pre-planting", "Mix with other fertilizers"},
	},
	Caption: "Recommended fertilizer application rates for corn production",
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Respond picks canned advice for question. Pest and disease questions win
// over fertilizer ones when both match.
func Respond(question string) Reply {
	q := strings.ToLower(question)

	if containsAny(q, "pest", "disease") {
		return Reply{
			Text: "Integrated Pest Management (IPM) is the most effective approach for sustainable pest control:",
			Alerts: []Alert{{
				Level:   message.AlertWarning,
				Message: "Early detection and prevention are key to effective pest management.",
			}},
		}
	}

	if containsAny(q, "fertilizer", "nutrient") {
		return Reply{
			Text:   "Here's a comprehensive fertilizer recommendation based on typical crop requirements:",
			Tables: []message.TableData{fertilizerTable.Clone()},
			Alerts: []Alert{{
				Level:   message.AlertInfo,
				Message: "Always perform soil testing before fertilizer application to avoid over-fertilization.",
			}},
		}
	}

	return Reply{
		Text: fmt.Sprintf("Based on your query about %q, I recommend conducting a soil analysis first. "+
			"This will help determine the specific nutritional needs of your crops and allow for precise fertilizer application.",
			question),
	}
}
