package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/HiwarkhedePrasad/VakilAi/model"
)

// DocumentExtractor converts an uploaded document into plain text
type DocumentExtractor interface {
	Extract(path, declaredType string) (string, error)
}

// Pipeline drives one analysis job through the parse and analyze transitions.
// Parse failures end the job as failed; analyze always reaches completed,
// converting per-clause failures into degraded clause records.
type Pipeline struct {
	extractor  DocumentExtractor
	segmenter  *Segmenter
	retriever  Retriever
	classifier *RiskClassifier
	advisor    *Advisor
}

func NewPipeline(extractor DocumentExtractor, segmenter *Segmenter, retriever Retriever, classifier *RiskClassifier, advisor *Advisor) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		segmenter:  segmenter,
		retriever:  retriever,
		classifier: classifier,
		advisor:    advisor,
	}
}

// Run executes the full state machine for job: uploaded -> parsed ->
// completed, or uploaded -> failed when parsing goes wrong.
func (p *Pipeline) Run(ctx context.Context, job *model.AnalysisJob, declaredType string) {
	p.Parse(job, declaredType)
	if job.Status == model.StatusFailed {
		return
	}
	p.Analyze(ctx, job)
}

// Parse extracts text from the job's document and segments it into clauses.
// Any extraction error marks the job failed; analyze is then unreachable.
func (p *Pipeline) Parse(job *model.AnalysisJob, declaredType string) {
	text, err := p.extractor.Extract(job.FilePath, declaredType)
	if err != nil {
		job.Error = "Parse failed: " + err.Error()
		job.SetStatus(model.StatusFailed)
		return
	}

	job.RawText = text
	job.Clauses = p.segmenter.Segment(text)
	job.SetStatus(model.StatusParsed)
}

// Analyze runs retrieval, risk classification and suggestion generation for
// each clause independently. One clause failing never aborts the batch and
// never changes the terminal status from completed. The job's temp file is
// removed once analysis finishes, regardless of per-clause outcomes.
func (p *Pipeline) Analyze(ctx context.Context, job *model.AnalysisJob) {
	if job.Status != model.StatusParsed {
		return
	}

	analyzed := make([]model.Clause, 0, len(job.Clauses))
	for _, clause := range job.Clauses {
		analyzed = append(analyzed, p.analyzeClause(ctx, clause))
	}
	job.Clauses = analyzed
	job.SetStatus(model.StatusCompleted)

	p.releaseTempFile(job)
}

// analyzeClause is the per-clause fault boundary: a panic anywhere inside the
// retrieval/classification/suggestion steps degrades this clause instead of
// propagating, preserving its id and text.
func (p *Pipeline) analyzeClause(ctx context.Context, clause model.Clause) (out model.Clause) {
	out = clause

	defer func() {
		if r := recover(); r != nil {
			slog.Error("clause analysis failed", "clause_id", clause.ID, "error", r)
			out.Risk = model.RiskUnknown
			out.Suggestion = fmt.Sprintf("Analysis error: %v", r)
			out.LegalReference = &model.LegalReference{Act: "Error", Section: "—", URL: ""}
		}
	}()

	refs := p.retriever.Query(ctx, clause.Text, 1)
	if len(refs) > 0 {
		ref := refs[0]
		out.LegalReference = &ref
	} else {
		out.LegalReference = &model.LegalReference{Act: "N/A", Section: "N/A", URL: ""}
	}

	risk := p.classifier.Classify(ctx, clause.Text, refs)
	out.Risk = risk.RiskLevel
	out.Suggestion = p.advisor.Suggest(ctx, clause.Text, risk)

	return out
}

func (p *Pipeline) releaseTempFile(job *model.AnalysisJob) {
	if job.FilePath == "" {
		return
	}
	if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp file", "path", job.FilePath, "error", err)
	}
}
