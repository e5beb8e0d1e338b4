package domain

// Intent labels a conversational turn with the task it should be routed to.
type Intent string

const (
	// IntentNormalChat is general conversation.
	IntentNormalChat Intent = "normal_chat"
	// IntentMockInterview requests an interview practice question.
	IntentMockInterview Intent = "mock_interview"
	// IntentEvaluateResume requests a resume critique.
	IntentEvaluateResume Intent = "evaluate_resume"
	// IntentRecommendJob requests job recommendations from the corpus.
	IntentRecommendJob Intent = "recommend_job"
)

// Intents lists all routable intents in classifier prompt order.
func Intents() []Intent {
	return []Intent{IntentNormalChat, IntentMockInterview, IntentEvaluateResume, IntentRecommendJob}
}

// ParseIntent maps a label to an Intent, reporting whether it is known.
func ParseIntent(label string) (Intent, bool) {
	switch Intent(label) {
	case IntentNormalChat, IntentMockInterview, IntentEvaluateResume, IntentRecommendJob:
		return Intent(label), true
	}
	return "", false
}

func (i Intent) String() string { return string(i) }
