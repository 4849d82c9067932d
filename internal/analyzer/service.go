package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SGSTrader/internal/calculator"
	"SGSTrader/internal/catalog"
	"SGSTrader/internal/collector"
	"SGSTrader/internal/model"
	"SGSTrader/internal/recorder"
	"SGSTrader/internal/strategy"
)

// Source supplies the market data for one symbol.
type Source interface {
	Collect(ctx context.Context, symbol string) (*collector.Snapshot, error)
}

// Request is a single analysis request as entered by a user.
type Request struct {
	Market  model.MarketKind
	Symbol  string
	Capital float64
}

// Service runs the full analysis pipeline: collect, evaluate, summarize, record.
type Service struct {
	source   Source
	recorder recorder.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a Service. A nil recorder disables history.
func NewService(src Source, rec recorder.Recorder, logger *zap.Logger) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		source:   src,
		recorder: rec,
		logger:   logger.Named("analyzer"),
		now:      time.Now,
	}
}

// Analyze runs one analysis. Capital is checked before any data is fetched.
func (s *Service) Analyze(ctx context.Context, req Request) (*model.Analysis, error) {
	if err := strategy.ValidateCapital(req.Capital); err != nil {
		return nil, err
	}
	if _, ok := catalog.Lookup(req.Market); !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownMarket, req.Market)
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		symbol = catalog.DefaultSymbol(req.Market)
	}
	if !catalog.Allowed(req.Market, symbol) {
		s.logger.Warn("symbol is not a preset of its market",
			zap.String("market", string(req.Market)), zap.String("symbol", symbol))
	}

	snap, fetchErr := s.source.Collect(ctx, symbol)
	if fetchErr != nil {
		if !errors.Is(fetchErr, collector.ErrNoData) {
			return nil, fmt.Errorf("analyze %s: %w", symbol, fetchErr)
		}
		// Let the engine report the empty series alongside the fetch detail.
		snap = &collector.Snapshot{Series: model.NewPriceSeries(symbol, "", nil)}
	}

	result, err := strategy.Evaluate(model.AnalysisRequest{
		Series:    snap.Series,
		LiveQuote: snap.LiveQuote,
		Capital:   req.Capital,
		Market:    req.Market,
	})
	if err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("analyze %s: %w: %w", symbol, err, fetchErr)
		}
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}

	summary, err := calculator.Summarize(snap.Series)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", symbol, err)
	}

	a := &model.Analysis{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
		Market:    req.Market,
		Symbol:    symbol,
		Capital:   req.Capital,
		Provider:  snap.Provider,
		Summary:   summary,
		Result:    *result,
	}

	s.logger.Info("analysis complete",
		zap.String("id", a.ID),
		zap.String("symbol", symbol),
		zap.String("market", string(req.Market)),
		zap.String("provider", snap.Provider),
		zap.String("signal", string(result.Signal)),
		zap.Float64("entry", result.EntryPrice),
		zap.Float64("exit", result.ExitPrice),
		zap.Float64("quote", result.Quote))

	if err := s.recorder.RecordAnalysis(a); err != nil {
		s.logger.Error("record analysis", zap.String("id", a.ID), zap.Error(err))
	}
	return a, nil
}

// History returns the most recent recorded analyses, newest first.
func (s *Service) History(limit int) ([]model.Analysis, error) {
	return s.recorder.RecentAnalyses(limit)
}
