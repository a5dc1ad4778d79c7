package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitanest/vitanest-platform/internal/profile"
)

var (
	noon    = time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	pickZero = func(n int) int { return 0 }
)

func TestComposeHighUrgencyShortCircuits(t *testing.T) {
	c := Classify("I have chest pain and a headache")
	require.Equal(t, UrgencyHigh, c.Urgency)

	reply := Compose(c, nil, noon, pickZero)

	assert.Contains(t, reply, urgentCareNotice)
	assert.Contains(t, reply, symptomKnowledge["chest pain"].Advice)
	// The urgent path never includes the self-care list or the closing
	// invitation; it ends on the concern prompt.
	assert.NotContains(t, reply, "- Stay hydrated")
	assert.NotContains(t, reply, closingInvitation)
	assert.True(t, strings.HasSuffix(reply, urgentCarePrompt))
	// Only high-urgency symptom advice appears, not the headache advice.
	assert.NotContains(t, reply, symptomKnowledge["headache"].Advice)
}

func TestComposeSymptomPath(t *testing.T) {
	c := Classify("I have a headache")
	reply := Compose(c, nil, noon, pickZero)

	assert.Contains(t, reply, "I understand you're experiencing headache.")
	assert.Contains(t, reply, symptomKnowledge["headache"].Advice)
	assert.Contains(t, reply, selfCareList)
	assert.NotContains(t, reply, mediumUrgencyConsult)
	assert.Contains(t, reply, closingInvitation)
}

func TestComposeMediumUrgencyAddsConsultSentence(t *testing.T) {
	c := Classify("fever and fatigue")
	require.Equal(t, UrgencyMedium, c.Urgency)

	reply := Compose(c, nil, noon, pickZero)
	assert.Contains(t, reply, mediumUrgencyConsult)
}

func TestComposeSymptomWithConditions(t *testing.T) {
	p := &profile.HealthProfile{Conditions: []string{"Hypertension", "Asthma"}}
	c := Classify("I have a headache")

	reply := Compose(c, p, noon, pickZero)
	assert.Contains(t, reply, "Given your medical history of Hypertension, Asthma")
}

func TestComposeMedicationPath(t *testing.T) {
	c := Classify("should I take ibuprofen")
	reply := Compose(c, nil, noon, pickZero)

	assert.Contains(t, reply, "Regarding ibuprofen:")
	assert.Contains(t, reply, medicationKnowledge["ibuprofen"].Advice)
	assert.Contains(t, reply, "pain relief, inflammation reduction, fever reduction")
	assert.NotContains(t, reply, "known allergies")
}

func TestComposeMedicationWithAllergies(t *testing.T) {
	p := &profile.HealthProfile{Allergies: []string{"penicillin"}}
	c := Classify("can I take aspirin")

	reply := Compose(c, p, noon, pickZero)
	assert.Contains(t, reply, "your known allergies to penicillin")
}

func TestComposeWellnessPath(t *testing.T) {
	c := Classify("tell me about sleep")
	reply := Compose(c, nil, noon, pickZero)

	assert.Contains(t, reply, "For sleep:")
	assert.Contains(t, reply, wellnessKnowledge["sleep"].Recommendations)
	assert.Contains(t, reply, wellnessKnowledge["sleep"].Tips)
}

func TestComposeGeneralPathTimeOfDay(t *testing.T) {
	c := Classify("hello there")
	require.False(t, c.HasMatches())

	tests := []struct {
		hour int
		tip  string
	}{
		{8, morningTip},
		{11, morningTip},
		{12, afternoonTip},
		{16, afternoonTip},
		{17, eveningTip},
		{23, eveningTip},
	}
	for _, tt := range tests {
		now := time.Date(2025, 3, 10, tt.hour, 0, 0, 0, time.UTC)
		reply := Compose(c, nil, now, pickZero)
		assert.Contains(t, reply, tt.tip, "hour=%d", tt.hour)
	}
}

func TestComposeGeneralPathProfileTips(t *testing.T) {
	c := Classify("hi")
	p := &profile.HealthProfile{
		Age:        62,
		Conditions: []string{"Hypertension", "Diabetes"},
	}

	reply := Compose(c, p, noon, pickZero)
	assert.Contains(t, reply, balanceTip)
	assert.Contains(t, reply, bpTip)
	assert.Contains(t, reply, glucoseTip)

	young := &profile.HealthProfile{Age: 30}
	reply = Compose(c, young, noon, pickZero)
	assert.NotContains(t, reply, balanceTip)
	assert.NotContains(t, reply, bpTip)
}

func TestComposeGeneralPathRandomTip(t *testing.T) {
	c := Classify("hello")
	for i := range generalWellnessTips {
		i := i
		reply := Compose(c, nil, noon, func(n int) int {
			assert.Equal(t, len(generalWellnessTips), n)
			return i
		})
		assert.Contains(t, reply, generalWellnessTips[i])
	}
}

func TestComposeAlwaysClosesWithInvitation(t *testing.T) {
	for _, text := range []string{"hello", "I have a headache", "can I take aspirin", "tell me about exercise"} {
		reply := Compose(Classify(text), nil, noon, pickZero)
		assert.True(t, strings.HasSuffix(reply, closingInvitation), "text=%q", text)
	}
}
