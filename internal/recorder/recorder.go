package recorder

import "SGSTrader/internal/model"

// Recorder persists completed analyses for later review.
type Recorder interface {
	RecordAnalysis(a *model.Analysis) error
	// RecentAnalyses returns up to limit analyses, newest first.
	RecentAnalyses(limit int) ([]model.Analysis, error)
	Close() error
}
