package model

import (
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"uploaded to parsed", StatusUploaded, StatusParsed, true},
		{"uploaded to failed", StatusUploaded, StatusFailed, true},
		{"uploaded to completed", StatusUploaded, StatusCompleted, false},
		{"parsed to completed", StatusParsed, StatusCompleted, true},
		{"parsed to failed", StatusParsed, StatusFailed, true},
		{"parsed to uploaded", StatusParsed, StatusUploaded, false},
		{"completed is terminal", StatusCompleted, StatusFailed, false},
		{"failed is terminal", StatusFailed, StatusParsed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestJobSetStatusIgnoresIllegal(t *testing.T) {
	job := NewAnalysisJob("job-1", "lease.pdf", "/tmp/lease.pdf")

	if job.Status != StatusUploaded {
		t.Fatalf("Expected initial status uploaded, got %s", job.Status)
	}

	if !job.SetStatus(StatusParsed) {
		t.Error("Expected uploaded -> parsed to be accepted")
	}
	if !job.SetStatus(StatusCompleted) {
		t.Error("Expected parsed -> completed to be accepted")
	}

	// Terminal state must not be revived
	if job.SetStatus(StatusParsed) {
		t.Error("Expected completed -> parsed to be rejected")
	}
	if job.Status != StatusCompleted {
		t.Errorf("Expected status to remain completed, got %s", job.Status)
	}
}

func TestClauseUnsetFieldsOmitted(t *testing.T) {
	clause := Clause{ID: 1, Text: "Pay rent on time."}

	if clause.Risk != "" || clause.Suggestion != "" || clause.LegalReference != nil {
		t.Error("Expected risk, suggestion and legal_reference to be unset on a fresh clause")
	}
}
