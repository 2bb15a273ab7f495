package service

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/HiwarkhedePrasad/VakilAi/config"
	"github.com/HiwarkhedePrasad/VakilAi/model"
)

// AnalysisStore is an in-memory store for finished analysis results, used by
// the read endpoints. Durable persistence is the object store's job and is
// best-effort.
type AnalysisStore struct {
	analyses    map[string]*model.AnalysisResult
	mu          sync.RWMutex
	maxAnalyses int // Maximum results to keep, 0 = unlimited
}

var (
	globalStore *AnalysisStore
	storeOnce   sync.Once
)

// InitAnalysisStore initializes the global analysis store with configuration
func InitAnalysisStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxAnalyses := cfg.MaxAnalyses
		if maxAnalyses < 0 {
			maxAnalyses = 0
		}
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.AnalysisResult),
			maxAnalyses: maxAnalyses,
		}
		slog.Info("analysis store initialized", "max_analyses", maxAnalyses)
	})
}

// GetAnalysisStore returns the global analysis store
func GetAnalysisStore() *AnalysisStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &AnalysisStore{
			analyses:    make(map[string]*model.AnalysisResult),
			maxAnalyses: 100, // Default: keep 100 results
		}
	}
	return globalStore
}

func (s *AnalysisStore) Save(result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[result.JobID] = result

	// Cleanup if exceeds max
	s.cleanupIfNeeded()
}

func (s *AnalysisStore) Get(jobID string) *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyses[jobID]
}

func (s *AnalysisStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.analyses, jobID)
}

// cleanupIfNeeded removes oldest results if store exceeds maxAnalyses
// Must be called with lock held
func (s *AnalysisStore) cleanupIfNeeded() {
	if s.maxAnalyses <= 0 {
		return // Unlimited
	}

	if len(s.analyses) <= s.maxAnalyses {
		return
	}

	// Sort results by analysis time
	results := make([]*model.AnalysisResult, 0, len(s.analyses))
	for _, r := range s.analyses {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].AnalyzedAt.Before(results[j].AnalyzedAt)
	})

	// Remove oldest results
	removeCount := len(results) - s.maxAnalyses
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old analysis",
			"job_id", results[i].JobID,
			"analyzed_at", results[i].AnalyzedAt,
		)
		delete(s.analyses, results[i].JobID)
	}
}

// Count returns the number of results in the store
func (s *AnalysisStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.analyses)
}
