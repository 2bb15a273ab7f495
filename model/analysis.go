package model

import (
	"time"
)

// Status represents the lifecycle state of an analysis job
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusParsed    Status = "parsed"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// CanTransition reports whether moving from s to next is a legal
// state-machine step. Terminal states (completed, failed) have no exits.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusUploaded:
		return next == StatusParsed || next == StatusFailed
	case StatusParsed:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Risk level constants
const (
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskUnknown = "unknown"
)

// LegalReference is one indexed statutory passage attached to a clause.
// Entries are seeded once at startup and copied into clause records.
type LegalReference struct {
	Act     string `json:"act"`
	Section string `json:"section"`
	Text    string `json:"text,omitempty"`
	URL     string `json:"url"`
}

// Clause is one addressable unit of contract text. Risk, Suggestion and
// LegalReference are unset until the analyze stage fills them in, exactly once.
type Clause struct {
	ID             int             `json:"id"`
	Text           string          `json:"text"`
	Risk           string          `json:"risk,omitempty"`
	Suggestion     string          `json:"suggestion,omitempty"`
	LegalReference *LegalReference `json:"legal_reference,omitempty"`
}

// AnalysisJob tracks one document-analysis request end to end.
type AnalysisJob struct {
	JobID    string
	FileName string
	FilePath string // temp file holding the uploaded bytes, removed after analysis
	RawText  string
	Clauses  []Clause
	Status   Status
	Error    string
}

// NewAnalysisJob creates a job in the uploaded state.
func NewAnalysisJob(jobID, fileName, filePath string) *AnalysisJob {
	return &AnalysisJob{
		JobID:    jobID,
		FileName: fileName,
		FilePath: filePath,
		Status:   StatusUploaded,
	}
}

// SetStatus applies a transition if it is legal; illegal transitions are
// ignored so a terminal job can never be revived.
func (j *AnalysisJob) SetStatus(next Status) bool {
	if !j.Status.CanTransition(next) {
		return false
	}
	j.Status = next
	return true
}

// AnalysisResult is the output record returned to the caller and persisted.
type AnalysisResult struct {
	JobID        string    `json:"job_id"`
	ContractName string    `json:"contract_name"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
	Clauses      []Clause  `json:"clauses"`
}
