package assistant

// Urgency levels attached to recognized symptoms. High outranks medium
// outranks low when multiple symptoms match.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Intents recognized by the classifier.
const (
	IntentQuestion      = "question"
	IntentHelp          = "help"
	IntentSymptomReport = "symptom_report"
	IntentGeneral       = "general"
)

type symptomEntry struct {
	Causes  []string
	Advice  string
	Urgency string
}

type medicationEntry struct {
	Uses         []string
	SideEffects  []string
	Interactions []string
	Advice       string
}

type wellnessEntry struct {
	Benefits        []string
	Recommendations string
	Tips            string
}

// The knowledge tables are static, process-wide, and read-only. The
// classifier matches message text against the keys; the composer reads the
// entries to assemble replies. Keys are matched as lower-case substrings, so
// "medications" matches the key "medication" but "head ache" does not match
// "headache" - that behavior is intentional and pinned by tests.
var symptomKnowledge = map[string]symptomEntry{
	"headache": {
		Causes:  []string{"stress", "dehydration", "lack of sleep", "eye strain", "tension"},
		Advice:  "Try drinking water, resting in a dark room, and applying a cold compress. If headaches persist or worsen, consult a healthcare provider.",
		Urgency: UrgencyLow,
	},
	"fever": {
		Causes:  []string{"infection", "inflammation", "immune response"},
		Advice:  "Rest, stay hydrated, and monitor your temperature. Seek medical attention if fever exceeds 103F (39.4C) or persists for more than 3 days.",
		Urgency: UrgencyMedium,
	},
	"chest pain": {
		Causes:  []string{"heart issues", "muscle strain", "anxiety", "acid reflux"},
		Advice:  "Chest pain can be serious. If you experience severe chest pain, shortness of breath, or pain radiating to your arm or jaw, seek immediate medical attention.",
		Urgency: UrgencyHigh,
	},
	"fatigue": {
		Causes:  []string{"poor sleep", "stress", "dehydration", "nutritional deficiency", "underlying conditions"},
		Advice:  "Ensure adequate sleep (7-9 hours), maintain a balanced diet, stay hydrated, and manage stress. Persistent fatigue may require medical evaluation.",
		Urgency: UrgencyLow,
	},
	"nausea": {
		Causes:  []string{"food poisoning", "motion sickness", "pregnancy", "medication side effects", "stress"},
		Advice:  "Try sipping clear fluids, eating bland foods like crackers, and resting. If accompanied by severe symptoms, seek medical care.",
		Urgency: UrgencyMedium,
	},
}

var medicationKnowledge = map[string]medicationEntry{
	"aspirin": {
		Uses:         []string{"pain relief", "fever reduction", "heart health"},
		SideEffects:  []string{"stomach irritation", "bleeding risk"},
		Interactions: []string{"blood thinners", "certain medications"},
		Advice:       "Take with food to reduce stomach irritation. Consult your doctor about long-term use.",
	},
	"ibuprofen": {
		Uses:         []string{"pain relief", "inflammation reduction", "fever reduction"},
		SideEffects:  []string{"stomach upset", "kidney issues with long-term use"},
		Interactions: []string{"blood pressure medications", "blood thinners"},
		Advice:       "Take with food and plenty of water. Avoid long-term use without medical supervision.",
	},
	"acetaminophen": {
		Uses:         []string{"pain relief", "fever reduction"},
		SideEffects:  []string{"liver damage with overdose"},
		Interactions: []string{"alcohol", "certain medications"},
		Advice:       "Do not exceed recommended dose. Avoid alcohol while taking this medication.",
	},
}

var wellnessKnowledge = map[string]wellnessEntry{
	"exercise": {
		Benefits:        []string{"cardiovascular health", "mental wellbeing", "weight management", "bone strength"},
		Recommendations: "150 minutes of moderate aerobic activity per week, plus strength training twice weekly.",
		Tips:            "Start slowly, choose activities you enjoy, and gradually increase intensity.",
	},
	"nutrition": {
		Benefits:        []string{"energy levels", "immune function", "disease prevention", "mental clarity"},
		Recommendations: "Eat a variety of fruits, vegetables, whole grains, lean proteins, and healthy fats.",
		Tips:            "Stay hydrated, limit processed foods, and practice portion control.",
	},
	"sleep": {
		Benefits:        []string{"cognitive function", "immune system", "emotional regulation", "physical recovery"},
		Recommendations: "7-9 hours of quality sleep per night for adults.",
		Tips:            "Maintain a consistent sleep schedule, create a relaxing bedtime routine, and limit screen time before bed.",
	},
}

// generalWellnessTips is the fixed pool the composer draws one random tip
// from when no keyword matched.
var generalWellnessTips = []string{
	"Hydration check: Aim for 8 glasses of water daily. Your urine should be light yellow.",
	"Nutrition tip: Try to include a variety of colorful fruits and vegetables in your meals for optimal nutrient intake.",
	"Sleep quality matters: A consistent bedtime routine can significantly improve your sleep quality and overall health.",
	"Stress management: Even 5 minutes of deep breathing or meditation can help reduce stress and improve focus.",
	"Movement matters: If you've been sedentary, even a 10-minute walk can boost circulation and energy levels.",
}
