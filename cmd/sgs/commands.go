package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"SGSTrader/internal/analyzer"
	"SGSTrader/internal/model"
	"SGSTrader/internal/notifier"
	"SGSTrader/internal/scheduler"
)

func analyzeCmd() *cobra.Command {
	var (
		market  string
		symbol  string
		capital float64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one symbol and print the suggestion",
		Example: `  sgs analyze --market stocks --symbol AAPL --capital 1000
  sgs analyze -m forex -s EURUSD=X --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			req, err := a.defaultRequest()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("market") {
				if req.Market, err = model.ParseMarketKind(market); err != nil {
					return err
				}
				req.Symbol = ""
			}
			if cmd.Flags().Changed("symbol") {
				req.Symbol = symbol
			}
			if cmd.Flags().Changed("capital") {
				req.Capital = capital
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			res, err := a.service.Analyze(ctx, req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, res)
			}
			fmt.Fprint(cmd.OutOrStdout(), notifier.StripTags(notifier.FormatAnalysis(res)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&market, "market", "m", "", "Market: forex, indices, stocks, futures")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Symbol, e.g. AAPL, EURUSD=X, ^NSEI (defaults to the market preset)")
	cmd.Flags().Float64VarP(&capital, "capital", "k", 0, "Capital to size the position with")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(pretty.Pretty(data))
	return err
}

func marketsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markets",
		Short: "List supported markets and symbol presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), notifier.StripTags(notifier.FormatMarkets()))
		},
	}
}

func historyCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.service.History(limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, items)
			}
			fmt.Fprint(cmd.OutOrStdout(), notifier.StripTags(notifier.FormatHistory(items)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of analyses to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analyses as JSON")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Analyze the watchlist on a schedule and answer Telegram commands",
		Long: `watch runs the configured watchlist on schedule.watch_cron and sends each
report to Telegram. With Telegram configured it also answers /analyze,
/history and /markets. Set RUN_ON_START=true to run the watchlist immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return runWatch(cmd.Context(), a)
		},
	}
}

func runWatch(parent context.Context, a *app) error {
	logger := a.logger
	defaults, err := a.defaultRequest()
	if err != nil {
		return err
	}

	watchlist := make([]analyzer.Request, 0, len(a.cfg.Watch.Watchlist))
	for _, w := range a.cfg.Watch.Watchlist {
		kind, err := model.ParseMarketKind(w.Market)
		if err != nil {
			return err
		}
		watchlist = append(watchlist, analyzer.Request{Market: kind, Symbol: w.Symbol, Capital: w.Capital})
	}
	if len(watchlist) == 0 {
		watchlist = append(watchlist, defaults)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		tn     *notifier.TelegramNotifier
		sender scheduler.Sender
	)
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, logger)
		sender = tn
	} else {
		logger.Warn("telegram not configured, reports are logged only")
	}

	sched := scheduler.NewScheduler(ctx, a.service, sender, defaults, watchlist, a.cfg.Watch.Concurrency, logger)
	if err := sched.Register(a.cfg.Schedule.WatchCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, running watchlist now")
		go sched.RunWatchNow()
	}

	logger.Info("SGSTrader is running, press Ctrl+C to stop",
		zap.String("cron", a.cfg.Schedule.WatchCron), zap.Int("watchlist", len(watchlist)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		logger.Info("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	cancel()
	return nil
}
