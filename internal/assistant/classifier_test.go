package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		c := Classify(input)
		assert.Empty(t, c.Symptoms)
		assert.Empty(t, c.Medications)
		assert.Empty(t, c.WellnessTopics)
		assert.Equal(t, UrgencyLow, c.Urgency)
		assert.Equal(t, IntentGeneral, c.Intent)
		assert.False(t, c.HasMatches())
	}
}

func TestClassifySymptomUrgency(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		symptoms []string
		urgency  string
	}{
		{"single low", "I have a headache", []string{"headache"}, UrgencyLow},
		{"single medium", "running a fever since yesterday", []string{"fever"}, UrgencyMedium},
		{"single high", "chest pain", []string{"chest pain"}, UrgencyHigh},
		{"max wins", "headache and chest pain and fever", []string{"chest pain", "fever", "headache"}, UrgencyHigh},
		{"medium over low", "Fever and fatigue", []string{"fatigue", "fever"}, UrgencyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.text)
			assert.Equal(t, tt.symptoms, c.Symptoms)
			assert.Equal(t, tt.urgency, c.Urgency)
		})
	}
}

func TestClassifyIntentPriority(t *testing.T) {
	tests := []struct {
		text   string
		intent string
	}{
		{"how long does aspirin last", IntentQuestion},
		{"I need advice please", IntentHelp},
		// "how" outranks "help" in the fixed priority order.
		{"how can you help me", IntentQuestion},
		{"I feel dizzy", IntentSymptomReport},
		{"good morning", IntentGeneral},
	}
	for _, tt := range tests {
		c := Classify(tt.text)
		assert.Equal(t, tt.intent, c.Intent, "text=%q", tt.text)
	}
}

func TestClassifySubstringMatchIsUnstemmed(t *testing.T) {
	// "medications" contains "medication" nowhere in the tables, but
	// "aspirin" inside a longer word still matches by substring.
	c := Classify("is baby-aspirin safe")
	assert.Equal(t, []string{"aspirin"}, c.Medications)

	// No stemming: "headaches" matches because "headache" is a substring.
	c = Classify("frequent headaches lately")
	assert.Equal(t, []string{"headache"}, c.Symptoms)
}

func TestClassifyAccumulatesAcrossTables(t *testing.T) {
	c := Classify("headache after taking ibuprofen, should I change my sleep")
	assert.Equal(t, []string{"headache"}, c.Symptoms)
	assert.Equal(t, []string{"ibuprofen"}, c.Medications)
	assert.Equal(t, []string{"sleep"}, c.WellnessTopics)
	assert.True(t, c.HasMatches())
}

func TestClassifyIdempotent(t *testing.T) {
	const text = "I have a headache and fever, what should I do"
	first := Classify(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(text))
	}
}
