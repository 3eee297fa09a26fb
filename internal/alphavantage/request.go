package alphavantage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the provider's query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// ErrInvalidLimit is returned for a negative record limit.
var ErrInvalidLimit = errors.New("limit must be non-negative")

// Domain is the provider category an operation belongs to.
type Domain string

const (
	DomainEquity          Domain = "equity"
	DomainDigitalCurrency Domain = "digital-currency"
	DomainExchangeRate    Domain = "exchange-rate"
)

// Kind is the function requested within a domain.
type Kind string

const (
	KindIntraday     Kind = "intraday"
	KindDaily        Kind = "daily"
	KindWeekly       Kind = "weekly"
	KindMonthly      Kind = "monthly"
	KindQuote        Kind = "quote"
	KindRating       Kind = "rating"
	KindExchangeRate Kind = "realtime-exchange-rate"
)

// Format selects the body format requested from the provider.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Operation is a fully specified request intent.
type Operation struct {
	Domain Domain
	Kind   Kind
	Symbol string
	// CounterSymbol is the market for digital-currency series and the target
	// currency for exchange rates.
	CounterSymbol string
	// Interval applies to intraday only.
	Interval string
	// Limit keeps only the first Limit records; 0 keeps everything.
	Limit  int
	Format Format
}

var (
	equityFunctions = map[Kind]string{
		KindIntraday: "TIME_SERIES_INTRADAY",
		KindDaily:    "TIME_SERIES_DAILY",
		KindWeekly:   "TIME_SERIES_WEEKLY",
		KindMonthly:  "TIME_SERIES_MONTHLY",
		KindQuote:    "GLOBAL_QUOTE",
	}
	digitalCurrencyFunctions = map[Kind]string{
		KindRating:  "CRYPTO_RATING",
		KindDaily:   "DIGITAL_CURRENCY_DAILY",
		KindWeekly:  "DIGITAL_CURRENCY_WEEKLY",
		KindMonthly: "DIGITAL_CURRENCY_MONTHLY",
	}
	exchangeRateFunctions = map[Kind]string{
		KindExchangeRate: "CURRENCY_EXCHANGE_RATE",
	}

	// cliNames lists the command-line spelling of each kind, in help order.
	cliNames = map[Domain][]string{
		DomainEquity:          {"intraday", "daily", "weekly", "monthly", "global"},
		DomainDigitalCurrency: {"rating", "daily", "weekly", "monthly"},
		DomainExchangeRate:    {"exrate"},
	}
	aliases = map[string]Kind{
		"global": KindQuote,
		"exrate": KindExchangeRate,
	}

	intervals = []string{"1min", "5min", "15min", "30min", "60min"}
)

func functionTable(d Domain) map[Kind]string {
	switch d {
	case DomainEquity:
		return equityFunctions
	case DomainDigitalCurrency:
		return digitalCurrencyFunctions
	case DomainExchangeRate:
		return exchangeRateFunctions
	}
	return nil
}

// FunctionName returns the provider function identifier for a domain and kind.
func FunctionName(d Domain, k Kind) (string, bool) {
	fn, ok := functionTable(d)[k]
	return fn, ok
}

// Names returns the command-line function names accepted for a domain.
func Names(d Domain) []string {
	return append([]string(nil), cliNames[d]...)
}

// Intervals returns the allowed intraday intervals.
func Intervals() []string {
	return append([]string(nil), intervals...)
}

// ValidInterval reports whether s is an allowed intraday interval.
func ValidInterval(s string) bool {
	for _, v := range intervals {
		if v == s {
			return true
		}
	}
	return false
}

// ParseKind maps a command-line function name to a kind of domain d.
func ParseKind(d Domain, name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	k := Kind(n)
	if a, ok := aliases[n]; ok {
		k = a
	}
	if _, ok := FunctionName(d, k); !ok {
		return "", &InvalidFunctionError{Domain: d, Name: name}
	}
	return k, nil
}

// IsSeries reports whether k is one of the four time-series kinds.
func (k Kind) IsSeries() bool {
	switch k {
	case KindIntraday, KindDaily, KindWeekly, KindMonthly:
		return true
	}
	return false
}

func defaultFormat(k Kind) Format {
	if k.IsSeries() || k == KindQuote {
		return FormatCSV
	}
	return FormatJSON
}

// ResolveFormat returns the concrete format op is requested in.
func (op Operation) ResolveFormat() (Format, error) {
	switch op.Format {
	case "", FormatAuto:
		return defaultFormat(op.Kind), nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		if defaultFormat(op.Kind) == FormatCSV {
			return FormatCSV, nil
		}
	}
	return "", &InvalidFormatError{Kind: op.Kind, Format: op.Format}
}

func (op Operation) needsCounterSymbol() bool {
	switch op.Domain {
	case DomainExchangeRate:
		return true
	case DomainDigitalCurrency:
		return op.Kind != KindRating
	}
	return false
}

// Validate checks op without touching the network. Function and interval
// problems are reported first, echoing the offending value.
func (op Operation) Validate() error {
	if _, ok := FunctionName(op.Domain, op.Kind); !ok {
		return &InvalidFunctionError{Domain: op.Domain, Name: string(op.Kind)}
	}
	if op.Kind == KindIntraday && !ValidInterval(op.Interval) {
		return &InvalidIntervalError{Interval: op.Interval}
	}
	if strings.TrimSpace(op.Symbol) == "" {
		return ErrMissingSymbol
	}
	if op.needsCounterSymbol() && strings.TrimSpace(op.CounterSymbol) == "" {
		return ErrMissingCounterSymbol
	}
	if op.Limit < 0 {
		return ErrInvalidLimit
	}
	if _, err := op.ResolveFormat(); err != nil {
		return err
	}
	return nil
}

// SeriesKey returns the top-level JSON field that holds a series for op.
func SeriesKey(op Operation) (string, bool) {
	switch op.Domain {
	case DomainEquity:
		switch op.Kind {
		case KindIntraday:
			return fmt.Sprintf("Time Series (%s)", op.Interval), true
		case KindDaily:
			return "Time Series (Daily)", true
		case KindWeekly:
			return "Weekly Time Series", true
		case KindMonthly:
			return "Monthly Time Series", true
		}
	case DomainDigitalCurrency:
		switch op.Kind {
		case KindDaily:
			return "Time Series (Digital Currency Daily)", true
		case KindWeekly:
			return "Time Series (Digital Currency Weekly)", true
		case KindMonthly:
			return "Time Series (Digital Currency Monthly)", true
		}
	}
	return "", false
}

// BuildURL returns the request URL for op against baseURL. It has no side
// effects.
func BuildURL(baseURL string, op Operation, apiKey string) (*url.URL, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	fn, _ := FunctionName(op.Domain, op.Kind)
	q := u.Query()
	q.Set("function", fn)
	switch op.Domain {
	case DomainExchangeRate:
		q.Set("from_currency", op.Symbol)
		q.Set("to_currency", op.CounterSymbol)
	default:
		q.Set("symbol", op.Symbol)
	}
	if op.Kind == KindIntraday {
		q.Set("interval", op.Interval)
	}
	if op.Domain == DomainDigitalCurrency && op.needsCounterSymbol() {
		q.Set("market", op.CounterSymbol)
	}
	if f, _ := op.ResolveFormat(); f == FormatCSV {
		q.Set("datatype", "csv")
	}
	q.Set("apikey", apiKey)
	u.RawQuery = q.Encode()
	return u, nil
}

// Redact returns u as a string with the API key masked, for logs and errors.
func Redact(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
