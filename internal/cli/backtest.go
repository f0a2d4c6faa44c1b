package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simulor-project/simulor/internal/apperr"
	"github.com/simulor-project/simulor/internal/broker"
	"github.com/simulor-project/simulor/internal/engine"
	"github.com/simulor-project/simulor/internal/feed"
	"github.com/simulor-project/simulor/internal/market"
	"github.com/simulor-project/simulor/internal/portfolio"
	"github.com/simulor-project/simulor/internal/strategy"
)

// dateLayout is the format for --start and --end.
const dateLayout = "2006-01-02"

// strategyFlags collects the strategy-selection flags shared by the
// backtest and live commands.
type strategyFlags struct {
	name        string
	fast        int
	slow        int
	reserve     float64
	maxPosition float64
}

func (f *strategyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "strategy", "buy-and-hold", "strategy: buy-and-hold, ma-crossover")
	cmd.Flags().IntVar(&f.fast, "fast", 10, "fast moving average window (ma-crossover)")
	cmd.Flags().IntVar(&f.slow, "slow", 30, "slow moving average window (ma-crossover)")
	cmd.Flags().Float64Var(&f.reserve, "reserve", -1, "fraction of capital kept in cash (default from config)")
	cmd.Flags().Float64Var(&f.maxPosition, "max-position", -1, "maximum single-position fraction of equity (default from config)")
}

// build assembles the strategy pipeline from the flags, falling back to
// config defaults for unset fractions.
func (f *strategyFlags) build(d *deps, instruments []market.Instrument) (*strategy.Strategy, error) {
	reserve := f.reserve
	if reserve < 0 {
		reserve = d.cfg.Trading.ReservePct
	}
	maxPosition := f.maxPosition
	if maxPosition < 0 {
		maxPosition = d.cfg.Trading.MaxPosition
	}
	if reserve < 0 || reserve >= 1 {
		return nil, fmt.Errorf("%w: --reserve must be in [0, 1), got %v", apperr.ErrInvalidInput, reserve)
	}
	if maxPosition <= 0 || maxPosition > 1 {
		return nil, fmt.Errorf("%w: --max-position must be in (0, 1], got %v", apperr.ErrInvalidInput, maxPosition)
	}

	var alpha strategy.AlphaModel
	switch f.name {
	case "buy-and-hold":
		alpha = strategy.NewBuyAndHold()
	case "ma-crossover":
		if f.fast <= 0 || f.slow <= f.fast {
			return nil, fmt.Errorf("%w: ma-crossover needs 0 < --fast < --slow, got fast=%d slow=%d", apperr.ErrInvalidInput, f.fast, f.slow)
		}
		alpha = strategy.NewMovingAverageCrossover(f.fast, f.slow)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", apperr.ErrInvalidInput, f.name)
	}

	return strategy.New(f.name,
		strategy.NewStatic(instruments...),
		alpha,
		strategy.NewEqualWeight(decimal.NewFromFloat(reserve)),
		strategy.NewPositionLimit(decimal.NewFromFloat(maxPosition)),
		strategy.NewImmediate(),
	)
}

// parseInstruments turns SYMBOL.EXCHANGE arguments into instruments.
// The exchange part is taken verbatim so it matches the data source.
func parseInstruments(symbols []string) ([]market.Instrument, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: at least one symbol is required", apperr.ErrInvalidInput)
	}
	out := make([]market.Instrument, 0, len(symbols))
	for _, s := range symbols {
		i := strings.LastIndex(s, ".")
		if i <= 0 || i == len(s)-1 {
			return nil, fmt.Errorf("%w: symbol %q must be SYMBOL.EXCHANGE", apperr.ErrInvalidInput, s)
		}
		out = append(out, market.Stock(s[:i], s[i+1:]))
	}
	return out, nil
}

// parseCapital resolves the --capital flag against the config default.
func parseCapital(flagValue string, d *deps) (decimal.Decimal, error) {
	raw := flagValue
	if raw == "" {
		raw = d.cfg.Trading.Capital
	}
	capital, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid capital %q", apperr.ErrInvalidInput, raw)
	}
	if capital.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: capital must be positive, got %s", apperr.ErrInvalidInput, capital)
	}
	return capital, nil
}

// parseWindow parses the optional --start and --end dates.
func parseWindow(start, end string) (time.Time, time.Time, error) {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(dateLayout, start); err != nil {
			return s, e, fmt.Errorf("%w: invalid --start %q", apperr.ErrInvalidInput, start)
		}
	}
	if end != "" {
		if e, err = time.Parse(dateLayout, end); err != nil {
			return s, e, fmt.Errorf("%w: invalid --end %q", apperr.ErrInvalidInput, end)
		}
		// Make the end date inclusive.
		e = e.Add(24*time.Hour - time.Second)
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return s, e, fmt.Errorf("%w: --end is before --start", apperr.ErrInvalidInput)
	}
	return s, e, nil
}

func newBacktestCmd(d *deps) *cobra.Command {
	var (
		dataFile string
		symbols  []string
		capital  string
		start    string
		end      string
		sf       strategyFlags
	)

	cmd := &cobra.Command{
		Use:     "backtest",
		Short:   "Replay a CSV bar file against a strategy with a simulated broker",
		Args:    cobra.NoArgs,
		GroupID: "trading",
		RunE: func(cmd *cobra.Command, _ []string) error {
			instruments, err := parseInstruments(symbols)
			if err != nil {
				return err
			}
			capitalAmt, err := parseCapital(capital, d)
			if err != nil {
				return err
			}
			startAt, endAt, err := parseWindow(start, end)
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

			barFeed := feed.NewCSVFeed(dataFile, market.ResolutionDaily)
			eng, err := engine.New(barFeed, fund, []*strategy.Strategy{strat}, broker.NewSimulated(), d.logger)
			if err != nil {
				return err
			}

			result, err := eng.Run(cmd.Context(), engine.Options{
				Mode:  engine.ModeBacktest,
				Start: startAt,
				End:   endAt,
			})
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, result)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "path to the CSV bar file (required)")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "instruments as SYMBOL.EXCHANGE (required)")
	cmd.Flags().StringVar(&capital, "capital", "", "starting capital (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD, inclusive)")
	sf.register(cmd)
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("symbols")

	return cmd
}
