package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Advisor produces a one-sentence rewrite suggestion for a clause. Suggest
// never fails: a generation problem yields a placeholder string instead.
type Advisor struct {
	generator Generator
}

func NewAdvisor(generator Generator) *Advisor {
	return &Advisor{generator: generator}
}

const suggestionPromptTemplate = `You are a user-friendly legal advisor. Rewrite or suggest an improvement to this clause
to better protect the user's interests. Be concise and practical.

Original clause: %q
Risk level: %s
Explanation: %s

Suggestion (1 sentence max):`

func (a *Advisor) Suggest(ctx context.Context, clauseText string, risk RiskResult) string {
	prompt := fmt.Sprintf(suggestionPromptTemplate, clauseText, risk.RiskLevel, risk.Explanation)

	suggestion, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("suggestion generation failed", "error", err)
		return "Unable to generate suggestion: " + err.Error()
	}

	return strings.TrimSpace(suggestion)
}
