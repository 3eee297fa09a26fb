package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"avapi/internal/alphavantage"
	"avapi/internal/config"
	"avapi/internal/credential"
	"avapi/internal/export"
	"avapi/internal/httpx"
	"avapi/internal/logging"
	"avapi/internal/query"
	"avapi/internal/tabular"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(time.Now).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	verbose    bool
	now        func() time.Time

	cfg    config.Config
	logger *zap.Logger
	stdin  *bufio.Reader
}

func newRootCmd(now func() time.Time) *cobra.Command {
	a := &app{now: now}
	root := &cobra.Command{
		Use:           "avapi",
		Short:         "Query Alpha Vantage stock, crypto and exchange-rate data",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), a.verbose)
			a.stdin = bufio.NewReader(cmd.InOrStdin())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log requests and timings to stderr")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./avapi.yaml or ./avapi.json)")

	root.AddCommand(
		newSetKeyCmd(a),
		newStockCmd(a),
		newCryptoCmd(a),
		newExrateCmd(a),
	)
	return root
}

// prompt writes label to stderr and reads one line of input.
func (a *app) prompt(cmd *cobra.Command, label string) string {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	line, err := a.stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		a.logger.Debug("prompt read failed", zap.Error(err))
	}
	return strings.TrimSpace(line)
}

// apiKey prefers the configured key over the key file.
func (a *app) apiKey() (string, error) {
	if k := strings.TrimSpace(a.cfg.APIKey); k != "" {
		return k, nil
	}
	return credential.FileStore{Path: a.cfg.KeyFile}.Key()
}

func (a *app) runner(key string) (*query.Runner, error) {
	hc := httpx.New(a.cfg.RequestTimeout())
	hc.UserAgent = a.cfg.UserAgent
	client, err := alphavantage.NewClient(key,
		alphavantage.WithBaseURL(a.cfg.BaseURL),
		alphavantage.WithHTTPClient(hc),
		alphavantage.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("alphavantage client: %w", err)
	}
	return query.NewRunner(client, a.logger), nil
}

// run validates op, resolves the key, fetches and prints the result, and
// exports it when save is set. Nothing is printed if any step fails.
func (a *app) run(cmd *cobra.Command, op alphavantage.Operation, save bool, function, symbol string) error {
	if err := op.Validate(); err != nil {
		return err
	}
	key, err := a.apiKey()
	if err != nil {
		return err
	}
	r, err := a.runner(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout())
	defer cancel()
	res, err := r.Run(ctx, op)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), res.DisplayString())
	if save {
		return a.save(res, function, symbol)
	}
	return nil
}

func (a *app) save(res *tabular.Result, function, symbol string) error {
	path, err := export.Save(a.cfg.OutputDir, a.now(), function, symbol, res)
	if err != nil {
		return err
	}
	a.logger.Info("saved", zap.String("path", path), zap.Int("records", res.Len()))
	return nil
}
