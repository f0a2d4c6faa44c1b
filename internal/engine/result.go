package engine

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simulor-project/simulor/internal/output"
	"github.com/simulor-project/simulor/internal/portfolio"
)

// EquityPoint is one sample of the fund's equity over time.
type EquityPoint struct {
	Time   time.Time       `json:"time"`
	Equity decimal.Decimal `json:"equity"`
}

// Result summarizes one engine run.
type Result struct {
	Mode            Mode            `json:"mode"`
	InitialCapital  decimal.Decimal `json:"initial_capital"`
	FinalEquity     decimal.Decimal `json:"final_equity"`
	TotalReturn     decimal.Decimal `json:"total_return"`
	MaxDrawdown     decimal.Decimal `json:"max_drawdown"`
	EventsProcessed int             `json:"events_processed"`
	OrdersSubmitted int             `json:"orders_submitted"`
	OrdersFilled    int             `json:"orders_filled"`
	OrdersRejected  int             `json:"orders_rejected"`
	EquityCurve     []EquityPoint   `json:"equity_curve"`
	FinalPositions  []Position      `json:"final_positions"`

	peak decimal.Decimal
}

// Position is a portfolio position snapshot in the result.
type Position struct {
	Instrument string          `json:"instrument"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	LastPrice  decimal.Decimal `json:"last_price"`
	Value      decimal.Decimal `json:"value"`
}

func newResult(mode Mode, capital decimal.Decimal) *Result {
	return &Result{
		Mode:           mode,
		InitialCapital: capital,
		peak:           capital,
	}
}

// observe records one equity sample and updates the drawdown peak.
func (r *Result) observe(t time.Time, equity decimal.Decimal) {
	r.EventsProcessed++
	r.EquityCurve = append(r.EquityCurve, EquityPoint{Time: t, Equity: equity})

	if equity.GreaterThan(r.peak) {
		r.peak = equity
		return
	}
	if r.peak.Sign() > 0 {
		dd := r.peak.Sub(equity).Div(r.peak)
		if dd.GreaterThan(r.MaxDrawdown) {
			r.MaxDrawdown = dd
		}
	}
}

// finish computes the final figures from the portfolio's end state.
func (r *Result) finish(pf *portfolio.Portfolio) {
	r.FinalEquity = pf.Equity()
	if r.InitialCapital.Sign() > 0 {
		r.TotalReturn = r.FinalEquity.Sub(r.InitialCapital).Div(r.InitialCapital)
	}
	for _, pos := range pf.Positions() {
		r.FinalPositions = append(r.FinalPositions, Position{
			Instrument: pos.Instrument.String(),
			Quantity:   pos.Quantity,
			AvgPrice:   pos.AvgPrice,
			LastPrice:  pos.LastPrice,
			Value:      pos.MarketValue(),
		})
	}
	sort.Slice(r.FinalPositions, func(i, j int) bool {
		return r.FinalPositions[i].Instrument < r.FinalPositions[j].Instrument
	})
}

// pct renders a decimal ratio as a percentage with two decimals.
func pct(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// WriteTable implements output.TableFormattable.
func (r *Result) WriteTable(w io.Writer) error {
	rows := [][]string{
		{"Mode", string(r.Mode)},
		{"Initial capital", r.InitialCapital.StringFixed(2)},
		{"Final equity", r.FinalEquity.StringFixed(2)},
		{"Total return", pct(r.TotalReturn)},
		{"Max drawdown", pct(r.MaxDrawdown)},
		{"Events processed", fmt.Sprintf("%d", r.EventsProcessed)},
		{"Orders submitted", fmt.Sprintf("%d", r.OrdersSubmitted)},
		{"Orders filled", fmt.Sprintf("%d", r.OrdersFilled)},
		{"Orders rejected", fmt.Sprintf("%d", r.OrdersRejected)},
	}
	table := output.NewWrappingTable(w, 20, 30)
	table.Header([]string{"Metric", "Value"})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.FinalPositions) == 0 {
		return nil
	}
	posRows := make([][]string, 0, len(r.FinalPositions))
	for _, pos := range r.FinalPositions {
		posRows = append(posRows, []string{pos.Instrument, pos.Quantity.String(), pos.AvgPrice.StringFixed(2), pos.LastPrice.StringFixed(2), pos.Value.StringFixed(2)})
	}
	posTable := output.NewWrappingTable(w, 20, 30)
	posTable.Header([]string{"Instrument", "Quantity", "Avg Price", "Last Price", "Value"})
	if err := posTable.Bulk(posRows); err != nil {
		return err
	}
	return posTable.Render()
}

// WritePlain implements output.PlainFormattable.
func (r *Result) WritePlain(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s initial=%s final=%s return=%s drawdown=%s orders=%d/%d\n",
		r.Mode,
		r.InitialCapital.StringFixed(2),
		r.FinalEquity.StringFixed(2),
		pct(r.TotalReturn),
		pct(r.MaxDrawdown),
		r.OrdersFilled,
		r.OrdersSubmitted,
	)
	return err
}
