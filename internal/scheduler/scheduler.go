package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"SGSTrader/internal/analyzer"
	"SGSTrader/internal/model"
	"SGSTrader/internal/notifier"
)

const sendRetries = 3

// Analyzer runs analyses and reads back their history.
type Analyzer interface {
	Analyze(ctx context.Context, req analyzer.Request) (*model.Analysis, error)
	History(limit int) ([]model.Analysis, error)
}

// Sender delivers formatted reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// WatchResult is the outcome of analyzing one watchlist entry.
type WatchResult struct {
	Request  analyzer.Request
	Analysis *model.Analysis
	Err      error
}

// Scheduler runs the watchlist on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  Analyzer
	Sender    Sender
	Watchlist []analyzer.Request
	Defaults  analyzer.Request
	// Concurrency bounds how many watchlist entries are analyzed at once.
	Concurrency int
	Ctx         context.Context

	logger *zap.Logger
}

// NewScheduler creates a new Scheduler. sender may be nil, in which case
// reports are only logged.
func NewScheduler(ctx context.Context, an Analyzer, sender Sender, defaults analyzer.Request, watchlist []analyzer.Request, concurrency int, logger *zap.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Analyzer:    an,
		Sender:      sender,
		Watchlist:   watchlist,
		Defaults:    defaults,
		Concurrency: concurrency,
		Ctx:         ctx,
		logger:      logger.Named("scheduler"),
	}
}

// Register registers the watchlist job.
func (s *Scheduler) Register(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, func() { s.RunWatchNow() }); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("watchlist", len(s.Watchlist)))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunWatchNow analyzes every watchlist entry and sends each report. Results are
// returned in watchlist order; a failing entry does not stop the others.
func (s *Scheduler) RunWatchNow() []WatchResult {
	s.logger.Info("running watch task", zap.Int("entries", len(s.Watchlist)))
	results := make([]WatchResult, len(s.Watchlist))

	g, ctx := errgroup.WithContext(s.Ctx)
	g.SetLimit(s.Concurrency)
	for i, req := range s.Watchlist {
		req = s.withDefaults(req)
		g.Go(func() error {
			a, err := s.Analyzer.Analyze(ctx, req)
			results[i] = WatchResult{Request: req, Analysis: a, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			s.logger.Error("watch analysis failed",
				zap.String("symbol", r.Request.Symbol), zap.Error(r.Err))
			s.trySend(fmt.Sprintf("❌ %s (%s): %s", r.Request.Symbol, r.Request.Market.DisplayName(), r.Err))
			continue
		}
		s.trySend(notifier.FormatAnalysis(r.Analysis))
	}
	return results
}

func (s *Scheduler) withDefaults(req analyzer.Request) analyzer.Request {
	if req.Market == "" {
		req.Market = s.Defaults.Market
	}
	if req.Capital == 0 {
		req.Capital = s.Defaults.Capital
	}
	return req
}

const helpText = `Available commands:
• /analyze &lt;market&gt; [symbol] [capital]
• /history [n]
• /markets`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Commands addressed as /cmd@botname in groups.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/analyze":
		req, err := s.parseAnalyze(args)
		if err != nil {
			return "❌ " + err.Error() + "\n\n" + helpText
		}
		a, err := s.Analyzer.Analyze(ctx, req)
		if err != nil {
			return fmt.Sprintf("❌ analysis failed: %s", err)
		}
		return notifier.FormatAnalysis(a)
	case "/history":
		limit := 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return "❌ history size must be a positive number"
			}
			limit = n
		}
		items, err := s.Analyzer.History(limit)
		if err != nil {
			return fmt.Sprintf("❌ history unavailable: %s", err)
		}
		return notifier.FormatHistory(items)
	case "/markets":
		return notifier.FormatMarkets()
	default:
		return helpText
	}
}

func (s *Scheduler) parseAnalyze(args []string) (analyzer.Request, error) {
	req := s.Defaults
	if len(args) == 0 {
		return req, nil
	}
	kind, err := model.ParseMarketKind(args[0])
	if err != nil {
		return req, err
	}
	req.Market = kind
	req.Symbol = ""
	if len(args) > 1 {
		req.Symbol = strings.ToUpper(args[1])
	}
	if len(args) > 2 {
		capital, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return req, fmt.Errorf("invalid capital %q", args[2])
		}
		req.Capital = capital
	}
	if len(args) > 3 {
		return req, fmt.Errorf("too many arguments")
	}
	return req, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Sender == nil {
		s.logger.Info("report", zap.String("text", notifier.StripTags(text)))
		return
	}
	if err := s.Sender.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.logger.Error("send notification", zap.Error(err))
	}
}
