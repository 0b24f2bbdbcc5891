// Package cmd implements the wlt CLI application to manage trading portfolios.
package cmd

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/wallet"
	"github.com/etnz/wallet/docstore"
	"github.com/etnz/wallet/finnhub"
	"github.com/etnz/wallet/logger"
	"github.com/etnz/wallet/notify"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use a global configuration.
var cfg Config

// Register loads the configuration, binds the global flags on fs and registers the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, fs *flag.FlagSet) {
	cfg = LoadConfig()
	fs.StringVar(&cfg.Data, "data", cfg.Data, "Path to the sqlite database file or the store directory ($"+EnvData+")")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "Store kind: sqlite, dir or memory ($"+EnvStore+")")
	fs.StringVar(&cfg.Account, "account", cfg.Account, "Account whose data is managed ($"+EnvAccount+")")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "Email of the active account, imports must match it ($"+EnvEmail+")")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "Log level: debug, info, warn, error or disabled ($"+EnvLogLevel+")")

	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	for _, g := range Commands {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Name)
		}
	}
}

// Group is a named set of subcommands.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Commands lists the wlt subcommands by group, in help order.
var Commands = []Group{
	{"portfolios", []subcommands.Command{&createCmd{}, &renameCmd{}, &deleteCmd{}, &adjustCmd{}, &resetCapitalCmd{}, &goalsCmd{}}},
	{"trades", []subcommands.Command{&openCmd{}, &editCmd{}, &closeCmd{}, &rmTradeCmd{}}},
	{"savings", []subcommands.Command{&withdrawCmd{}, &expenseCmd{}, &rmExpenseCmd{}}},
	{"reports", []subcommands.Command{&listCmd{}, &showCmd{}, &summaryCmd{}, &compareCmd{}, &expensesCmd{}, &quoteCmd{}}},
	{"data", []subcommands.Command{&exportCmd{}, &importCmd{}, &resetAllCmd{}, &profileCmd{}, &notificationsCmd{}}},
	{"api", []subcommands.Command{&serveCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// newLogger returns the logger configured for this run.
func newLogger() zerolog.Logger {
	return logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
}

// openStore opens the configured store. The returned function releases it.
func openStore(ctx context.Context, log zerolog.Logger) (wallet.Store, func(), error) {
	switch cfg.Store {
	case StoreMemory:
		return docstore.NewMemory(), func() {}, nil
	case StoreDir:
		d, err := docstore.NewDir(cfg.Data)
		return d, func() {}, err
	case StoreSQLite:
		db, err := docstore.OpenSQLite(cfg.Data)
		if err != nil {
			return nil, nil, err
		}
		s, err := docstore.NewSQLite(ctx, db, cfg.Account, log)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, closer(db, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store)
	}
}

func closer(db *sql.DB, log zerolog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
}

// newQuoter returns the finnhub client, or nil when no api key is configured.
func newQuoter(log zerolog.Logger) wallet.Quoter {
	if cfg.FinnhubKey == "" {
		return nil
	}
	return finnhub.New(cfg.FinnhubKey,
		finnhub.WithSuffix(cfg.FinnhubSuffix),
		finnhub.WithTTL(cfg.QuoteTTL),
		finnhub.WithLogger(log),
	)
}

// openLedger opens the ledger of the configured account. The returned
// function releases the underlying store.
func openLedger(ctx context.Context) (*wallet.Ledger, func(), error) {
	log := newLogger()
	store, release, err := openStore(ctx, log)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open %s store %q: %w", cfg.Store, cfg.Data, err)
	}
	l, err := wallet.Open(ctx, store, wallet.Options{
		Quoter:   newQuoter(log),
		Notifier: notify.Multi{notify.NewLog(log), notify.Func(printNotification)},
		Logger:   &log,
		Policy:   wallet.DefaultPolicy(),
		Email:    cfg.Email,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return l, release, nil
}

func printNotification(_ context.Context, n wallet.Notification) error {
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", n.Title, n.Body)
	return err
}

// withLedger runs f on the configured ledger and converts its error into an exit status.
func withLedger(ctx context.Context, f func(l *wallet.Ledger) error) subcommands.ExitStatus {
	l, release, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer release()
	if err := f(l); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// errAborted is returned when the user declined a confirmation.
var errAborted = errors.New("aborted")

// fail prints err and returns the matching exit status.
func fail(err error) subcommands.ExitStatus {
	if errors.Is(err, errAborted) {
		fmt.Fprintln(os.Stderr, "Aborted.")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, wallet.ErrValidation) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// confirm asks prompt on out and reads the answer from in. It returns
// errAborted unless the answer is yes. yes skips the question.
func confirm(in io.Reader, out io.Writer, prompt string, yes bool) error {
	if yes {
		return nil
	}
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}

// resolvePortfolio finds a portfolio by id, or else by its name (case insensitive).
func resolvePortfolio(l *wallet.Ledger, ref string) (wallet.Portfolio, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return wallet.Portfolio{}, fmt.Errorf("%w: portfolio is missing, use -p <id|name>", wallet.ErrValidation)
	}
	if p, err := l.Portfolio(ref); err == nil {
		return p, nil
	}
	var found []wallet.Portfolio
	for _, p := range l.Portfolios() {
		if strings.EqualFold(p.Name, ref) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return wallet.Portfolio{}, fmt.Errorf("%w: portfolio %q", wallet.ErrNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return wallet.Portfolio{}, fmt.Errorf("%w: %d portfolios are named %q, use the id", wallet.ErrValidation, len(found), ref)
	}
}

// amountVar defines an amount flag.
func amountVar(f *flag.FlagSet, a *wallet.Amount, name, usage string) {
	f.Func(name, usage, func(s string) error {
		v, err := wallet.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	})
}

// optionalAmountVar defines an amount flag left nil when not set.
func optionalAmountVar(f *flag.FlagSet, a **wallet.Amount, name, usage string) {
	f.Func(name, usage, func(s string) error {
		v, err := wallet.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = &v
		return nil
	})
}

// printMarkdown renders md for the terminal, falling back to raw markdown.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
