package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sgs",
		Short: "Quantile-band trade suggestions for forex, indices, stocks and futures",
		Long: `sgs fetches daily closes for a symbol, derives an entry/exit band from the
30th and 90th percentiles of the history, and suggests BUY, SELL or HOLD with
a lot size, leverage and estimated profit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "Path to the YAML config file")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(marketsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(watchCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sgs version %s\n", version)
		},
	}
}
