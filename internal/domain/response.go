package domain

// ResponsePayload is the normalized answer set submitted on completion.
type ResponsePayload struct {
	Answers []Answer `json:"answers"`
}

type AnswerKind string

const (
	AnswerText   AnswerKind = "text"
	AnswerChoice AnswerKind = "choice"
	AnswerScale  AnswerKind = "scale"
	AnswerEmail  AnswerKind = "email"
)

type Answer struct {
	QuestionID string     `json:"question_id"`
	Kind       AnswerKind `json:"kind"`
	Value      string     `json:"value"`
}

// FreeTexts returns text/email answer values in submission order.
func (p *ResponsePayload) FreeTexts() []string {
	var out []string
	for _, a := range p.Answers {
		if a.Kind == AnswerText || a.Kind == AnswerEmail {
			out = append(out, a.Value)
		}
	}
	return out
}

// SubmissionMetadata carries the known side-channel sub-shapes of a
// completion request; anything unrecognized lands in Extra untouched.
type SubmissionMetadata struct {
	Timing   *ResponseTiming    `json:"timing,omitempty"`
	Behavior *BehaviorTelemetry `json:"behavior,omitempty"`
	Network  *NetworkContext    `json:"network,omitempty"`
	Extra    map[string]any     `json:"extra,omitempty"`
}

type ResponseTiming struct {
	TotalSeconds  float64 `json:"total_seconds"`
	QuestionCount int     `json:"question_count"`
}

type BehaviorTelemetry struct {
	MouseMoveCount     int      `json:"mouse_move_count"`
	KeyPressCount      int      `json:"key_press_count"`
	FocusChanges       int      `json:"focus_changes"`
	SuspiciousPatterns []string `json:"suspicious_patterns,omitempty"`
}
