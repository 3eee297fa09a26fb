package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"avapi/internal/alphavantage"
	"avapi/internal/credential"
)

func newSetKeyCmd(a *app) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "setkey",
		Short: "Save an Alpha Vantage API key to the key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(key) == "" {
				key = a.prompt(cmd, "Alpha Vantage API Key")
			}
			store := credential.FileStore{Path: a.cfg.KeyFile}
			if err := store.Save(key); err != nil {
				return err
			}
			a.logger.Info("api key saved", zap.String("path", store.Path))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "k", "", "Alpha Vantage API key (prompted when omitted)")
	return cmd
}

// seriesFlags are shared by stock and crypto.
type seriesFlags struct {
	symbol string
	limit  int
	format string
	save   bool
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "symbol, e.g. TSLA or BTC (prompted when omitted)")
	cmd.Flags().IntVarP(&f.limit, "last", "n", 0, "only keep the first n rows, 0 keeps all")
	cmd.Flags().StringVar(&f.format, "format", string(alphavantage.FormatAuto), "response format: auto, csv or json")
	cmd.Flags().BoolVar(&f.save, "save", false, "save data to a .csv file")
}

func (f *seriesFlags) resolveSymbol(a *app, cmd *cobra.Command) string {
	if s := strings.TrimSpace(f.symbol); s != "" {
		return s
	}
	return a.prompt(cmd, "Symbol")
}

func newStockCmd(a *app) *cobra.Command {
	var (
		f        seriesFlags
		interval string
	)
	names := alphavantage.Names(alphavantage.DomainEquity)
	cmd := &cobra.Command{
		Use:   "stock FUNCTION",
		Short: "Get a time series or quote for a stock",
		Long: fmt.Sprintf("Get a specific time series function for a stock of interest.\n\nFUNCTION: %s",
			strings.Join(names, " ")),
		Example: "  avapi stock intraday -s TSLA -i 15min\n" +
			"  avapi stock daily -s TSLA -n 30 --save",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := alphavantage.ParseKind(alphavantage.DomainEquity, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.Interval
			}
			op := alphavantage.Operation{
				Domain:   alphavantage.DomainEquity,
				Kind:     kind,
				Interval: interval,
				Limit:    f.limit,
				Format:   alphavantage.Format(f.format),
			}
			// Reject a bad interval before asking for a symbol.
			if kind == alphavantage.KindIntraday && !alphavantage.ValidInterval(interval) {
				return &alphavantage.InvalidIntervalError{Interval: interval}
			}
			op.Symbol = f.resolveSymbol(a, cmd)
			return a.run(cmd, op, f.save, args[0], op.Symbol)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&interval, "interval", "i", "", fmt.Sprintf("intraday interval: %s (default from config, 30min)",
		strings.Join(alphavantage.Intervals(), " ")))
	return cmd
}

func newCryptoCmd(a *app) *cobra.Command {
	var (
		f      seriesFlags
		market string
	)
	names := alphavantage.Names(alphavantage.DomainDigitalCurrency)
	cmd := &cobra.Command{
		Use:   "crypto FUNCTION",
		Short: "Get a time series or rating for a digital currency",
		Long: fmt.Sprintf("Get a specific time series function for a crypto currency of interest.\n\nFUNCTION: %s",
			strings.Join(names, " ")),
		Example:   "  avapi crypto daily -s BTC -m EUR -n 7",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := alphavantage.ParseKind(alphavantage.DomainDigitalCurrency, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("market") {
				market = a.cfg.Market
			}
			op := alphavantage.Operation{
				Domain: alphavantage.DomainDigitalCurrency,
				Kind:   kind,
				Limit:  f.limit,
				Format: alphavantage.Format(f.format),
			}
			if kind != alphavantage.KindRating {
				op.CounterSymbol = strings.ToUpper(strings.TrimSpace(market))
			}
			op.Symbol = f.resolveSymbol(a, cmd)
			return a.run(cmd, op, f.save, args[0], op.Symbol)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&market, "market", "m", "", "exchange market, e.g. USD or EUR (default from config)")
	return cmd
}

func newExrateCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "exrate FROM TO",
		Short: "Get the realtime exchange rate between two currencies",
		Long: "Returns the realtime exchange rate for any pair of digital currency\n" +
			"(e.g. BTC) or physical currency (e.g. USD).",
		Example: "  avapi exrate USD JPY",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := alphavantage.Operation{
				Domain:        alphavantage.DomainExchangeRate,
				Kind:          alphavantage.KindExchangeRate,
				Symbol:        args[0],
				CounterSymbol: args[1],
			}
			return a.run(cmd, op, save, "exrate", args[0]+"_"+args[1])
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save data to a .csv file")
	return cmd
}
