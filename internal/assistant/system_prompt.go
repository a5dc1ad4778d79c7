package assistant

import (
	"fmt"
	"strings"

	"github.com/vitanest/vitanest-platform/internal/profile"
)

const baseSystemPrompt = `You are VitaNest, a caring personal health assistant.
You provide general health education and wellness guidance. You are not a
doctor and you never diagnose, prescribe, or replace professional medical care.
For anything urgent or serious, direct the user to emergency services or a
healthcare provider. Keep answers warm, concrete, and short.`

// BuildSystemPrompt assembles the system blocks for an LLM completion. The
// rule-based reply is always included so the model stays anchored to the
// vetted advice; the profile block is added only when one exists.
func BuildSystemPrompt(p *profile.HealthProfile, ruleReply string) []string {
	system := []string{baseSystemPrompt}

	if p != nil {
		var b strings.Builder
		b.WriteString("User health profile:\n")
		if p.Age > 0 {
			fmt.Fprintf(&b, "- Age: %d\n", p.Age)
		}
		if len(p.Conditions) > 0 {
			fmt.Fprintf(&b, "- Conditions: %s\n", strings.Join(p.Conditions, ", "))
		}
		if len(p.Allergies) > 0 {
			fmt.Fprintf(&b, "- Allergies: %s\n", strings.Join(p.Allergies, ", "))
		}
		if s := b.String(); s != "User health profile:\n" {
			system = append(system, strings.TrimRight(s, "\n"))
		}
	}

	if strings.TrimSpace(ruleReply) != "" {
		system = append(system,
			"Vetted guidance for this message, which your answer must stay consistent with:\n"+ruleReply)
	}

	return system
}
