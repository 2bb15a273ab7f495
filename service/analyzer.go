package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HiwarkhedePrasad/VakilAi/model"
)

// RiskResult is the validated output of a risk classification
type RiskResult struct {
	RiskLevel   string `json:"risk_level"`
	Explanation string `json:"explanation"`
}

// RiskClassifier grades how unfavorable a clause is, using retrieved legal
// context. Classify never fails: every problem degrades to a medium-risk
// result explaining the cause.
type RiskClassifier struct {
	generator Generator
}

func NewRiskClassifier(generator Generator) *RiskClassifier {
	return &RiskClassifier{generator: generator}
}

const riskPromptTemplate = `Analyze this contract clause for risk to the user:
CLAUSE: %q

Relevant legal context:
%s

Respond in JSON format only:
{
    "risk_level": "low|medium|high",
    "explanation": "1-2 sentence reason"
}`

// Classify builds the analysis prompt from the clause and at most the two
// highest-ranked references, requests a JSON response and validates it
// strictly against the {risk_level, explanation} shape.
func (a *RiskClassifier) Classify(ctx context.Context, clauseText string, refs []model.LegalReference) RiskResult {
	prompt := fmt.Sprintf(riskPromptTemplate, clauseText, legalContext(refs))

	raw, err := a.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		slog.Warn("risk classification request failed", "error", err)
		return classificationFallback(err.Error())
	}

	var result RiskResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		slog.Warn("risk classification returned malformed JSON", "error", err)
		return classificationFallback(err.Error())
	}

	switch result.RiskLevel {
	case model.RiskLow, model.RiskMedium, model.RiskHigh:
	default:
		return classificationFallback(fmt.Sprintf("unexpected risk_level %q", result.RiskLevel))
	}

	return result
}

// legalContext formats up to two references for the prompt, or a placeholder
// when retrieval found nothing.
func legalContext(refs []model.LegalReference) string {
	if len(refs) > 2 {
		refs = refs[:2]
	}

	var lines []string
	for _, ref := range refs {
		lines = append(lines, fmt.Sprintf("%s Section %s: %s", ref.Act, ref.Section, ref.Text))
	}
	if len(lines) == 0 {
		return "No specific legal reference found."
	}
	return strings.Join(lines, "\n")
}

func classificationFallback(cause string) RiskResult {
	return RiskResult{
		RiskLevel:   model.RiskMedium,
		Explanation: "Analysis failed: " + cause,
	}
}
