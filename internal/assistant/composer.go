package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/vitanest/vitanest-platform/internal/profile"
)

// Fixed reply fragments. Tests assert on these exact strings, and the
// urgent-care notice in particular is a product requirement.
const (
	urgentCareNotice = "This could be serious, so I strongly recommend seeking immediate medical attention or calling emergency services if you're experiencing severe symptoms. Your health and safety are the top priority."

	urgentCareCalm = "In the meantime, try to stay calm and avoid any strenuous activity. If possible, have someone stay with you or contact a trusted person who can help."

	urgentCarePrompt = "Is there anything specific about your symptoms that's particularly concerning you right now?"

	selfCareList = "Here are some general recommendations:\n- Stay hydrated\n- Get adequate rest\n- Monitor your symptoms\n- Avoid triggers if known\n- Consider keeping a symptom diary"

	mediumUrgencyConsult = "If symptoms persist or worsen, please consult with a healthcare provider within the next day or two."

	closingInvitation = "Remember, I'm here to support your health journey. Feel free to ask me about any health concerns, medication questions, or wellness tips. How else can I help you today?"

	morningTip   = "Good morning! Starting your day with a glass of water and some light stretching can boost your energy and mood."
	afternoonTip = "Afternoon reminder: Take a moment to check your posture, stay hydrated, and consider a brief walk if you've been sitting for a while."
	eveningTip   = "Evening tip: Begin winding down for better sleep by dimming lights and avoiding screens 1-2 hours before bedtime."

	balanceTip = "Regular strength training and balance exercises are especially beneficial at your age for maintaining bone health and preventing falls."
	bpTip      = "For blood pressure management, remember to limit sodium intake, exercise regularly, and monitor your readings as recommended by your doctor."
	glucoseTip = "Blood sugar management tip: Consistent meal timing and regular monitoring can help maintain stable glucose levels throughout the day."
)

// Compose builds the local reply for a classified message. It is the fallback
// behind the hosted LLM and the only path when no LLM is configured. The
// caller supplies now (time-of-day bucket for proactive tips) and pick (index
// selection from the general tip pool) so replies are testable; pass
// rand.Intn for production behavior. The profile may be nil.
func Compose(c Classification, p *profile.HealthProfile, now time.Time, pick func(n int) int) string {
	// High urgency short-circuits every other section.
	if c.Urgency == UrgencyHigh {
		return composeUrgent(c)
	}

	var sections []string

	if len(c.Symptoms) > 0 {
		sections = append(sections, fmt.Sprintf("I understand you're experiencing %s. %s",
			strings.Join(c.Symptoms, " and "), symptomAdvice(c.Symptoms)))
		if p != nil && len(p.Conditions) > 0 {
			sections = append(sections, fmt.Sprintf(
				"Given your medical history of %s, it's especially important to monitor these symptoms closely.",
				strings.Join(p.Conditions, ", ")))
		}
		sections = append(sections, selfCareList)
		if c.Urgency == UrgencyMedium {
			sections = append(sections, mediumUrgencyConsult)
		}
	}

	if len(c.Medications) > 0 {
		sections = append(sections, medicationAdvice(c.Medications))
		if p != nil && len(p.Allergies) > 0 {
			sections = append(sections, fmt.Sprintf(
				"Important: Please remember your known allergies to %s when considering any medications.",
				strings.Join(p.Allergies, ", ")))
		}
	}

	if len(c.WellnessTopics) > 0 {
		sections = append(sections, wellnessAdvice(c.WellnessTopics))
	}

	if !c.HasMatches() {
		sections = append(sections, proactiveAdvice(p, now, pick))
	}

	sections = append(sections, closingInvitation)
	return strings.Join(sections, "\n\n")
}

func composeUrgent(c Classification) string {
	var advice []string
	for _, s := range c.Symptoms {
		entry, ok := symptomKnowledge[s]
		if !ok || entry.Urgency != UrgencyHigh {
			continue
		}
		advice = append(advice, entry.Advice)
	}

	paragraphs := []string{
		fmt.Sprintf("I'm concerned about the symptoms you're describing. %s %s",
			strings.Join(advice, " "), urgentCareNotice),
		urgentCareCalm,
		urgentCarePrompt,
	}
	return strings.Join(paragraphs, "\n\n")
}

func symptomAdvice(symptoms []string) string {
	advice := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if entry, ok := symptomKnowledge[s]; ok {
			advice = append(advice, entry.Advice)
		} else {
			advice = append(advice, "Monitor the symptom and consult a healthcare provider if it persists.")
		}
	}
	return strings.Join(advice, " ")
}

func medicationAdvice(medications []string) string {
	advice := make([]string, 0, len(medications))
	for _, m := range medications {
		entry, ok := medicationKnowledge[m]
		if !ok {
			advice = append(advice, fmt.Sprintf(
				"For %s, please consult with your pharmacist or healthcare provider for specific guidance on proper use, dosage, and potential interactions.", m))
			continue
		}
		advice = append(advice, fmt.Sprintf(
			"Regarding %s: %s Common uses include %s. Be aware of potential side effects like %s.",
			m, entry.Advice, strings.Join(entry.Uses, ", "), strings.Join(entry.SideEffects, ", ")))
	}
	return strings.Join(advice, "\n\n")
}

func wellnessAdvice(topics []string) string {
	advice := make([]string, 0, len(topics))
	for _, t := range topics {
		entry, ok := wellnessKnowledge[t]
		if !ok {
			advice = append(advice, fmt.Sprintf(
				"%s is an important aspect of overall health. I'd be happy to provide more specific guidance if you have particular questions.", t))
			continue
		}
		advice = append(advice, fmt.Sprintf("For %s: %s Benefits include %s. Tip: %s",
			t, entry.Recommendations, strings.Join(entry.Benefits, ", "), entry.Tips))
	}
	return strings.Join(advice, "\n\n")
}

// proactiveAdvice is the general path: one time-of-day tip, zero or more
// profile-conditioned tips, and one tip drawn from the fixed pool.
func proactiveAdvice(p *profile.HealthProfile, now time.Time, pick func(n int) int) string {
	var advice []string

	switch hour := now.Hour(); {
	case hour < 12:
		advice = append(advice, morningTip)
	case hour < 17:
		advice = append(advice, afternoonTip)
	default:
		advice = append(advice, eveningTip)
	}

	if p != nil {
		if p.Age > 50 {
			advice = append(advice, balanceTip)
		}
		if p.HasCondition("Hypertension") {
			advice = append(advice, bpTip)
		}
		if p.HasCondition("Diabetes") {
			advice = append(advice, glucoseTip)
		}
	}

	advice = append(advice, generalWellnessTips[pick(len(generalWellnessTips))])
	return strings.Join(advice, "\n\n")
}
