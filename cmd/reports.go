package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/renderer"
	"github.com/google/subcommands"
)

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- List Command ---

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the portfolios with their totals per currency" }
func (*listCmd) Usage() string {
	return `wlt list

  Lists every portfolio with its capital and profit, then the totals per
  currency and the savings balance.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		printMarkdown(renderer.RenderPortfolios(renderer.NewOverview(l.Portfolios(), l.SavingsBalance())))
		return nil
	})
}

// --- Show Command ---

type showCmd struct {
	portfolio string
	json      bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a portfolio with its goals, trades and history" }
func (*showCmd) Usage() string {
	return `wlt show -p <portfolio> [-json]

  Displays a portfolio: capital, goals, open and closed trades, performance
  and capital history.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.BoolVar(&c.json, "json", false, "Print the portfolio document as JSON")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if c.json {
			return printJSON(p)
		}
		printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolio(p)))
		return nil
	})
}

// --- Summary Command ---

type summaryCmd struct {
	json bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals of all portfolios per currency" }
func (*summaryCmd) Usage() string {
	return `wlt summary [-json]

  Displays the total initial and current capital, the profit and loss, and
  the closed trades count, for each currency.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		s := wallet.Summarize(l.Portfolios())
		if c.json {
			return printJSON(s)
		}
		if len(s) == 0 {
			cs, _ := s.Flatten()
			s = wallet.Summary{cs.Currency: cs}
		}
		var b strings.Builder
		b.WriteString("# Summary\n\n")
		for _, cur := range s.Currencies() {
			cs := s[cur]
			fmt.Fprintf(&b, "## %s\n\n", cur)
			fmt.Fprintf(&b, "- Initial capital: %s\n", wallet.M(cs.TotalInitialCapital, cur))
			fmt.Fprintf(&b, "- Current capital: %s\n", wallet.M(cs.TotalCurrentCapital, cur))
			fmt.Fprintf(&b, "- Profit/Loss: %s (%s)\n", wallet.M(cs.TotalProfitLoss, cur).SignedString(), cs.TotalProfitLossPercent.SignedString())
			fmt.Fprintf(&b, "- Closed trades: %d\n\n", cs.TotalClosedTrades)
		}
		fmt.Fprintf(&b, "Savings: %s\n", wallet.M(l.SavingsBalance(), wallet.DefaultCurrency))
		printMarkdown(b.String())
		return nil
	})
}

// --- Compare Command ---

type compareCmd struct{}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the portfolios side by side" }
func (*compareCmd) Usage() string {
	return `wlt compare

  Compares portfolios on profit, win rate, average trade value, ROI and
  Sharpe ratio.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		printMarkdown(renderer.RenderComparison(renderer.NewComparison(l.Portfolios())))
		return nil
	})
}

// --- Expenses Command ---

type expensesCmd struct{}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list the expenses and the savings balance" }
func (*expensesCmd) Usage() string {
	return `wlt expenses

  Lists the expenses, newest first, with totals per category.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {}

func (c *expensesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		printMarkdown(renderer.RenderExpenses(renderer.NewExpenses(l.Expenses(), l.SavingsBalance())))
		return nil
	})
}

// --- Quote Command ---

type quoteCmd struct {
	portfolio string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "estimate the unrealized profit of open trades from market quotes" }
func (*quoteCmd) Usage() string {
	return `wlt quote -p <portfolio>
wlt quote <symbol>...

  With -p, fetches the last price of every open trade of the portfolio and
  estimates its unrealized profit. Otherwise prints the quotes of the given
  symbols. Requires $` + EnvFinnhubKey + `.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" && f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if c.portfolio == "" {
		q := newQuoter(newLogger())
		if q == nil {
			return fail(fmt.Errorf("%w: $%s is not set", wallet.ErrValidation, EnvFinnhubKey))
		}
		status := subcommands.ExitSuccess
		for _, symbol := range f.Args() {
			quote, err := q.Quote(ctx, symbol)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s: %v\n", symbol, err)
				status = subcommands.ExitFailure
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", quote.Symbol, quote.CurrentPrice, wallet.Percent(quote.PercentChange).SignedString())
		}
		return status
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		vals, err := l.Unrealized(ctx, p.ID)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RenderUnrealized(renderer.NewUnrealized(p, vals)))
		return nil
	})
}
