package tabular

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrNoHeader is returned by Parse when the input has no header row.
var ErrNoHeader = errors.New("missing header row")

// BarColumns is the column layout of a Result built from bars.
var BarColumns = []string{"timestamp", "open", "high", "low", "close", "volume"}

// Bar is one OHLCV row of a time series. Timestamp is kept exactly as the
// provider sent it: date-only for daily and longer, date-time for intraday.
type Bar struct {
	Timestamp string
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    int64
}

// Record converts the bar into a record laid out as BarColumns.
func (b Bar) Record() Record {
	return Record{
		{Name: BarColumns[0], Value: b.Timestamp},
		{Name: BarColumns[1], Value: b.Open.String()},
		{Name: BarColumns[2], Value: b.High.String()},
		{Name: BarColumns[3], Value: b.Low.String()},
		{Name: BarColumns[4], Value: b.Close.String()},
		{Name: BarColumns[5], Value: strconv.FormatInt(b.Volume, 10)},
	}
}

// ParseBar builds a bar from the first five values, read in order as open,
// high, low, close and volume. Extra values are ignored.
func ParseBar(timestamp string, values []string) (Bar, error) {
	if len(values) < 5 {
		return Bar{}, fmt.Errorf("bar %q: want 5 values, got %d", timestamp, len(values))
	}
	b := Bar{Timestamp: timestamp}
	slots := []*decimal.Decimal{&b.Open, &b.High, &b.Low, &b.Close}
	for i, dst := range slots {
		d, err := decimal.NewFromString(values[i])
		if err != nil {
			return Bar{}, fmt.Errorf("parse %s %q: %w", BarColumns[i+1], values[i], err)
		}
		*dst = d
	}
	vol, err := parseVolume(values[4])
	if err != nil {
		return Bar{}, fmt.Errorf("parse volume %q: %w", values[4], err)
	}
	b.Volume = vol
	return b, nil
}

// parseVolume accepts integer volumes and truncates fractional ones, which
// digital-currency series report.
func parseVolume(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}

// FromBars builds a Result with BarColumns from bars, keeping their order.
func FromBars(bars []Bar) *Result {
	records := make([]Record, len(bars))
	for i, b := range bars {
		records[i] = b.Record()
	}
	res := New(records)
	res.columns = append([]string(nil), BarColumns...)
	return res
}

// Bars reads every record positionally as timestamp, open, high, low, close,
// volume. Column names are not consulted, so it works for any provider
// series layout whose first six columns follow that order.
func (r *Result) Bars() ([]Bar, error) {
	if len(r.columns) < len(BarColumns) {
		return nil, fmt.Errorf("want at least %d columns, got %d", len(BarColumns), len(r.columns))
	}
	out := make([]Bar, 0, len(r.records))
	for _, rec := range r.records {
		row := r.row(rec)
		b, err := ParseBar(row[0], row[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
