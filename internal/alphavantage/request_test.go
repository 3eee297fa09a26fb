package alphavantage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"avapi/internal/alphavantage"
)

const testBase = "https://www.alphavantage.co/query"

func TestBuildURL_MapsEveryFunction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   alphavantage.Operation
		want string
	}{
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindIntraday, Symbol: "IBM", Interval: "5min"}, "TIME_SERIES_INTRADAY"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "IBM"}, "TIME_SERIES_DAILY"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindWeekly, Symbol: "IBM"}, "TIME_SERIES_WEEKLY"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindMonthly, Symbol: "IBM"}, "TIME_SERIES_MONTHLY"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindQuote, Symbol: "IBM"}, "GLOBAL_QUOTE"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindRating, Symbol: "BTC"}, "CRYPTO_RATING"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindDaily, Symbol: "BTC", CounterSymbol: "USD"}, "DIGITAL_CURRENCY_DAILY"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindWeekly, Symbol: "BTC", CounterSymbol: "USD"}, "DIGITAL_CURRENCY_WEEKLY"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindMonthly, Symbol: "BTC", CounterSymbol: "USD"}, "DIGITAL_CURRENCY_MONTHLY"},
		{alphavantage.Operation{Domain: alphavantage.DomainExchangeRate, Kind: alphavantage.KindExchangeRate, Symbol: "USD", CounterSymbol: "JPY"}, "CURRENCY_EXCHANGE_RATE"},
	}
	for _, tt := range tests {
		t.Run(string(tt.op.Domain)+"/"+string(tt.op.Kind), func(t *testing.T) {
			t.Parallel()

			// Act: build the URL.
			u, err := alphavantage.BuildURL(testBase, tt.op, "secret")

			// Assert: the function identifier and key are in the query.
			require.NoError(t, err)
			require.Equal(t, tt.want, u.Query().Get("function"))
			require.Equal(t, "secret", u.Query().Get("apikey"))

			fn, ok := alphavantage.FunctionName(tt.op.Domain, tt.op.Kind)
			require.True(t, ok)
			require.Equal(t, tt.want, fn)
		})
	}
}

func TestBuildURL_CryptoRatingIsNotIntraday(t *testing.T) {
	t.Parallel()

	op := alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindRating, Symbol: "BTC", Interval: "30min"}

	u, err := alphavantage.BuildURL(testBase, op, "k")

	require.NoError(t, err)
	require.Equal(t, "CRYPTO_RATING", u.Query().Get("function"))
	require.False(t, u.Query().Has("interval"))
	require.False(t, u.Query().Has("market"))
	require.False(t, u.Query().Has("datatype"))
}

func TestBuildURL_IntradayInterval(t *testing.T) {
	t.Parallel()

	candidates := []string{"1min", "5min", "15min", "30min", "60min", "", "2min", "1h", "60MIN", " 5min"}
	for _, iv := range candidates {
		op := alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindIntraday, Symbol: "IBM", Interval: iv}

		u, err := alphavantage.BuildURL(testBase, op, "k")

		var ie *alphavantage.InvalidIntervalError
		if alphavantage.ValidInterval(iv) {
			require.NoErrorf(t, err, "interval %q", iv)
			require.Equal(t, iv, u.Query().Get("interval"))
		} else {
			require.Truef(t, errors.As(err, &ie), "interval %q: %v", iv, err)
			require.Equal(t, iv, ie.Interval)
			require.Contains(t, err.Error(), "'"+iv+"'")
		}
	}
}

func TestBuildURL_IntervalIgnoredOutsideIntraday(t *testing.T) {
	t.Parallel()

	for _, iv := range []string{"", "5min", "bogus"} {
		op := alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "IBM", Interval: iv}

		u, err := alphavantage.BuildURL(testBase, op, "k")

		require.NoError(t, err)
		require.False(t, u.Query().Has("interval"))
	}
}

func TestBuildURL_QueryParameters(t *testing.T) {
	t.Parallel()

	// Assert: CSV is requested for series.
	u, err := alphavantage.BuildURL(testBase, alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "TSLA"}, "k")
	require.NoError(t, err)
	require.Equal(t, "TSLA", u.Query().Get("symbol"))
	require.Equal(t, "csv", u.Query().Get("datatype"))
	require.Equal(t, "www.alphavantage.co", u.Host)
	require.Equal(t, "/query", u.Path)

	// Assert: JSON format drops datatype.
	u, err = alphavantage.BuildURL(testBase, alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "TSLA", Format: alphavantage.FormatJSON}, "k")
	require.NoError(t, err)
	require.False(t, u.Query().Has("datatype"))

	// Assert: digital series carry the market.
	u, err = alphavantage.BuildURL(testBase, alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindWeekly, Symbol: "ETH", CounterSymbol: "EUR"}, "k")
	require.NoError(t, err)
	require.Equal(t, "ETH", u.Query().Get("symbol"))
	require.Equal(t, "EUR", u.Query().Get("market"))

	// Assert: exchange rate uses currency pair parameters and JSON.
	u, err = alphavantage.BuildURL(testBase, alphavantage.Operation{Domain: alphavantage.DomainExchangeRate, Kind: alphavantage.KindExchangeRate, Symbol: "BTC", CounterSymbol: "USD"}, "k")
	require.NoError(t, err)
	require.Equal(t, "BTC", u.Query().Get("from_currency"))
	require.Equal(t, "USD", u.Query().Get("to_currency"))
	require.False(t, u.Query().Has("symbol"))
	require.False(t, u.Query().Has("datatype"))
}

func TestBuildURL_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   alphavantage.Operation
		is   error
		as   any
	}{
		{
			name: "kind outside domain",
			op:   alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindRating, Symbol: "IBM"},
			as:   new(*alphavantage.InvalidFunctionError),
		},
		{
			name: "unknown domain",
			op:   alphavantage.Operation{Domain: "bonds", Kind: alphavantage.KindDaily, Symbol: "IBM"},
			as:   new(*alphavantage.InvalidFunctionError),
		},
		{
			name: "missing symbol",
			op:   alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily},
			is:   alphavantage.ErrMissingSymbol,
		},
		{
			name: "missing market",
			op:   alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindDaily, Symbol: "BTC"},
			is:   alphavantage.ErrMissingCounterSymbol,
		},
		{
			name: "missing to currency",
			op:   alphavantage.Operation{Domain: alphavantage.DomainExchangeRate, Kind: alphavantage.KindExchangeRate, Symbol: "USD"},
			is:   alphavantage.ErrMissingCounterSymbol,
		},
		{
			name: "negative limit",
			op:   alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "IBM", Limit: -1},
			is:   alphavantage.ErrInvalidLimit,
		},
		{
			name: "csv for json-only kind",
			op:   alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindRating, Symbol: "BTC", Format: alphavantage.FormatCSV},
			as:   new(*alphavantage.InvalidFormatError),
		},
		{
			name: "unknown format",
			op:   alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "IBM", Format: "xml"},
			as:   new(*alphavantage.InvalidFormatError),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := alphavantage.BuildURL(testBase, tt.op, "k")

			require.Error(t, err)
			require.Nil(t, u)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
			if tt.as != nil {
				require.ErrorAs(t, err, tt.as)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	// Assert: every advertised name parses for its domain.
	for _, d := range []alphavantage.Domain{alphavantage.DomainEquity, alphavantage.DomainDigitalCurrency, alphavantage.DomainExchangeRate} {
		for _, name := range alphavantage.Names(d) {
			k, err := alphavantage.ParseKind(d, name)
			require.NoErrorf(t, err, "%s %s", d, name)
			_, ok := alphavantage.FunctionName(d, k)
			require.True(t, ok)
		}
	}

	// Assert: the global alias is a quote.
	k, err := alphavantage.ParseKind(alphavantage.DomainEquity, "global")
	require.NoError(t, err)
	require.Equal(t, alphavantage.KindQuote, k)

	// Assert: the user's spelling is echoed back.
	_, err = alphavantage.ParseKind(alphavantage.DomainDigitalCurrency, "Intraday")
	var fe *alphavantage.InvalidFunctionError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "Intraday", fe.Name)
	require.Contains(t, err.Error(), "'Intraday'")
}

func TestSeriesKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   alphavantage.Operation
		want string
	}{
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindIntraday, Interval: "15min"}, "Time Series (15min)"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily}, "Time Series (Daily)"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindWeekly}, "Weekly Time Series"},
		{alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindMonthly}, "Monthly Time Series"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindDaily}, "Time Series (Digital Currency Daily)"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindWeekly}, "Time Series (Digital Currency Weekly)"},
		{alphavantage.Operation{Domain: alphavantage.DomainDigitalCurrency, Kind: alphavantage.KindMonthly}, "Time Series (Digital Currency Monthly)"},
	}
	for _, tt := range tests {
		got, ok := alphavantage.SeriesKey(tt.op)
		require.True(t, ok)
		require.Equal(t, tt.want, got)
	}

	_, ok := alphavantage.SeriesKey(alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindQuote})
	require.False(t, ok)
}

func TestIntervals_ReturnsCopy(t *testing.T) {
	t.Parallel()

	iv := alphavantage.Intervals()
	iv[0] = "changed"

	require.Equal(t, []string{"1min", "5min", "15min", "30min", "60min"}, alphavantage.Intervals())
}

func TestRedact(t *testing.T) {
	t.Parallel()

	u, err := alphavantage.BuildURL(testBase, alphavantage.Operation{Domain: alphavantage.DomainEquity, Kind: alphavantage.KindDaily, Symbol: "IBM"}, "topsecret")
	require.NoError(t, err)

	s := alphavantage.Redact(u)

	require.NotContains(t, s, "topsecret")
	require.Contains(t, s, "apikey=REDACTED")
	require.Equal(t, "topsecret", u.Query().Get("apikey"))
}
