package linkdto

import "github.com/panelhub/panel-link-service/internal/domain"

// ClickDecision mirrors the gate verdict recorded for the click.
type ClickDecision struct {
	Allowed bool     `json:"allowed"`
	Reason  string   `json:"reason,omitempty"`
	Flags   []string `json:"flags,omitempty"`
}

type ClickOutput struct {
	Link     *domain.SurveyLink `json:"link"`
	Decision ClickDecision      `json:"decision"`
}

type CompletionOutput struct {
	Link     *domain.SurveyLink `json:"link"`
	QCResult *domain.QCResult   `json:"qc_result"`
}
