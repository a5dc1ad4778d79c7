package assistant

import (
	"sort"
	"strings"
)

// Classification is the ephemeral result of analyzing one user message. It is
// created per message and discarded once the reply is composed.
type Classification struct {
	Symptoms       []string
	Medications    []string
	WellnessTopics []string
	Urgency        string
	Intent         string
}

// Classify tags a free-text message against the static knowledge tables.
// Matching is case-insensitive substring search with no stemming; all matches
// accumulate. Urgency is the maximum urgency among matched symptoms. The
// function is pure and cannot fail: empty input degrades to a zero result
// with intent=general and urgency=low.
func Classify(text string) Classification {
	c := Classification{
		Symptoms:       []string{},
		Medications:    []string{},
		WellnessTopics: []string{},
		Urgency:        UrgencyLow,
		Intent:         IntentGeneral,
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return c
	}

	for key, entry := range symptomKnowledge {
		if strings.Contains(lower, key) {
			c.Symptoms = append(c.Symptoms, key)
			if entry.Urgency == UrgencyHigh {
				c.Urgency = UrgencyHigh
			} else if entry.Urgency == UrgencyMedium && c.Urgency == UrgencyLow {
				c.Urgency = UrgencyMedium
			}
		}
	}
	for key := range medicationKnowledge {
		if strings.Contains(lower, key) {
			c.Medications = append(c.Medications, key)
		}
	}
	for key := range wellnessKnowledge {
		if strings.Contains(lower, key) {
			c.WellnessTopics = append(c.WellnessTopics, key)
		}
	}

	// Map iteration order is random; sort so repeated classification of the
	// same text is identical.
	sort.Strings(c.Symptoms)
	sort.Strings(c.Medications)
	sort.Strings(c.WellnessTopics)

	switch {
	case strings.Contains(lower, "how") || strings.Contains(lower, "what") || strings.Contains(lower, "why"):
		c.Intent = IntentQuestion
	case strings.Contains(lower, "help") || strings.Contains(lower, "advice"):
		c.Intent = IntentHelp
	case strings.Contains(lower, "feel") || strings.Contains(lower, "experiencing"):
		c.Intent = IntentSymptomReport
	}

	return c
}

// HasMatches reports whether any symptom, medication, or wellness topic was
// recognized.
func (c Classification) HasMatches() bool {
	return len(c.Symptoms) > 0 || len(c.Medications) > 0 || len(c.WellnessTopics) > 0
}
