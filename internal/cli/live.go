package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simulor-project/simulor/internal/engine"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/longbridge"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/portfolio"
	"github.com/simulor-project/simulor/internal/strategy"
)

func newLiveCmd(d *deps) *cobra.Command {
	var (
		symbols []string
		capital string
		confirm bool
		sf      strategyFlags
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Trade live through the Longbridge OpenAPI",
		Long: `Run a strategy against live Longbridge market data and submit real orders.

Credentials come from the LONGPORT_APP_KEY, LONGPORT_APP_SECRET, and
LONGPORT_ACCESS_TOKEN environment variables, or from the longbridge
section of the config file. The run continues until interrupted.`,
		Args:    cobra.NoArgs,
		GroupID: "trading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("live trading submits real orders; re-run with --confirm to proceed")
			}

			// Live instruments go through the venue symbol codec so
			// exchanges round-trip (700.HK resolves to HKEX).
			instruments := make([]market.Instrument, 0, len(symbols))
			for _, s := range symbols {
				inst, err := longbridge.ParseSymbol(s)
				if err != nil {
					return err
				}
				instruments = append(instruments, inst)
			}
			if len(instruments) == 0 {
				return fmt.Errorf("at least one --symbols value is required")
			}

			capitalAmt, err := parseCapital(capital, d)
			if err != nil {
				return err
			}
			strat, err := sf.build(d, instruments)
			if err != nil {
				return err
			}
			fund, err := portfolio.NewFund(capitalAmt, strat.Name())
			if err != nil {
				return err
			}

			creds := d.cfg.Credentials(os.Getenv)
			brk := longbridge.NewBroker(creds, d.logger)
			liveFeed := brk.LiveFeed(instruments,
				[]feed.DataType{feed.DataQuote, feed.DataTrade},
				d.cfg.Global.Concurrency)

			eng, err := engine.New(liveFeed, fund, []*strategy.Strategy{strat}, brk, d.logger)
			if err != nil {
				return err
			}

			result, err := eng.Run(cmd.Context(), engine.Options{Mode: engine.ModeLive})
			if err != nil && (result == nil || cmd.Context().Err() == nil) {
				return err
			}
			// Interruption is the normal way a live run ends; report the
			// session summary rather than the cancellation.
			return writeResult(cmd.OutOrStdout(), d, result)
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "instruments as SYMBOL.REGION, e.g. 700.HK (required)")
	cmd.Flags().StringVar(&capital, "capital", "", "capital to allocate (default from config)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "acknowledge that real orders will be submitted")
	sf.register(cmd)
	_ = cmd.MarkFlagRequired("symbols")

	return cmd
}
