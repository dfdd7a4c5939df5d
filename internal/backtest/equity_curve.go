package backtest

import (
	"bytes"
	"strconv"
	"time"
)

// EquityPoint is the cumulative result after one bet
type EquityPoint struct {
	Bet      int       `json:"bet"`
	Date     time.Time `json:"date"`
	Units    float64   `json:"units"`
	Drawdown float64   `json:"drawdown"`
	PnL      float64   `json:"pnl"`
}

// EquityCurve is the per-bet series of cumulative units
type EquityCurve []EquityPoint

// MaxDrawdown returns the largest peak-to-trough fall in units. The curve
// starts from a flat ledger, so an early loss counts from zero.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Units > peak {
			peak = p.Units
		}
		if dd := peak - p.Units; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// GetReturns returns the per-bet profit series
func (e EquityCurve) GetReturns() []float64 {
	returns := make([]float64, 0, len(e))
	for _, p := range e {
		returns = append(returns, p.PnL)
	}
	return returns
}

// GetVolatility calculates the standard deviation of per-bet profit
func (e EquityCurve) GetVolatility() float64 {
	return stddev(e.GetReturns())
}

// Final returns the closing unit balance
func (e EquityCurve) Final() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Units
}

// ToCSV exports equity curve to CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("bet,date,units,drawdown,pnl\n")
	for _, point := range e {
		buf.WriteString(strconv.Itoa(point.Bet))
		buf.WriteString(",")
		buf.WriteString(point.Date.Format("2006-01-02"))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Units))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
