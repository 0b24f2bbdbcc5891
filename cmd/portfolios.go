package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wallet"
	"github.com/google/subcommands"
)

// --- Create Command ---

type createCmd struct {
	name     string
	capital  wallet.Amount
	goal     wallet.Amount
	currency string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a portfolio with its initial capital and first goal" }
func (*createCmd) Usage() string {
	return `wlt create -n <name> -c <capital> -g <goal> [-cur <currency>]

  Creates a portfolio. The first goal must be above the initial capital.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name")
	amountVar(f, &c.capital, "c", "Initial capital")
	amountVar(f, &c.goal, "g", "First goal amount")
	f.StringVar(&c.currency, "cur", wallet.DefaultCurrency, "Portfolio currency (ISO 4217)")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := l.CreatePortfolio(ctx, wallet.NewPortfolio{
			Name:           c.name,
			InitialCapital: c.capital,
			FirstGoal:      c.goal,
			Currency:       c.currency,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created portfolio %q (%s) with %s\n", p.Name, p.ID, p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Rename Command ---

type renameCmd struct {
	portfolio string
	name      string
}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "rename a portfolio" }
func (*renameCmd) Usage() string {
	return `wlt rename -p <portfolio> -n <new name>

  Renames a portfolio. Expenses paid from it follow the new name.
`
}

func (c *renameCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.StringVar(&c.name, "n", "", "New name")
}

func (c *renameCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if _, err := l.RenamePortfolio(ctx, p.ID, c.name); err != nil {
			return err
		}
		fmt.Printf("Renamed %q to %q\n", p.Name, strings.TrimSpace(c.name))
		return nil
	})
}

// --- Delete Command ---

type deleteCmd struct {
	portfolio string
	yes       bool
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a portfolio with its trades and goals" }
func (*deleteCmd) Usage() string {
	return `wlt delete -p <portfolio> [-y]

  Deletes a portfolio. Its expenses are kept but no longer linked to it.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		prompt := fmt.Sprintf("Delete portfolio %q and its %d trades?", p.Name, len(p.Trades))
		if err := confirm(os.Stdin, os.Stderr, prompt, c.yes); err != nil {
			return err
		}
		if err := l.DeletePortfolio(ctx, p.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted portfolio %q\n", p.Name)
		return nil
	})
}

// --- Adjust Command ---

type adjustCmd struct {
	portfolio string
	amount    wallet.Amount
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "deposit to or withdraw from a portfolio capital" }
func (*adjustCmd) Usage() string {
	return `wlt adjust -p <portfolio> -a <amount>

  Adds amount to both the initial and the current capital, so that the
  profit and loss is unchanged. Use a negative amount for a withdrawal.
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	amountVar(f, &c.amount, "a", "Signed amount to add")
}

func (c *adjustCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if p, err = l.AdjustCapital(ctx, p.ID, c.amount); err != nil {
			return err
		}
		fmt.Printf("Capital of %q is now %s\n", p.Name, p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Reset Capital Command ---

type resetCapitalCmd struct {
	portfolio string
	capital   wallet.Amount
	yes       bool
}

func (*resetCapitalCmd) Name() string     { return "reset-capital" }
func (*resetCapitalCmd) Synopsis() string { return "set a portfolio initial and current capital" }
func (*resetCapitalCmd) Usage() string {
	return `wlt reset-capital -p <portfolio> -c <capital> [-y]

  Sets both the initial and the current capital, the profit and loss
  restarts from zero.
`
}

func (c *resetCapitalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	amountVar(f, &c.capital, "c", "New capital")
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *resetCapitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		prompt := fmt.Sprintf("Reset the capital of %q to %s?", p.Name, p.Money(c.capital))
		if err := confirm(os.Stdin, os.Stderr, prompt, c.yes); err != nil {
			return err
		}
		if p, err = l.ResetCapital(ctx, p.ID, c.capital); err != nil {
			return err
		}
		fmt.Printf("Capital of %q reset to %s\n", p.Name, p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Goals Command ---

type goalsCmd struct {
	portfolio string
}

func (*goalsCmd) Name() string     { return "goals" }
func (*goalsCmd) Synopsis() string { return "replace the financial goals of a portfolio" }
func (*goalsCmd) Usage() string {
	return `wlt goals -p <portfolio> <name>=<amount>...

  Replaces the goals of a portfolio. Goals keeping their name keep their
  achievement state.

Usage Examples:
$ wlt goals -p main "first=15000" "car=400000"
`
}

func (c *goalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
}

func (c *goalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		goals, err := parseGoals(p.FinancialGoals, f.Args())
		if err != nil {
			return err
		}
		if p, err = l.SetGoals(ctx, p.ID, goals); err != nil {
			return err
		}
		fmt.Printf("%q has %d goals\n", p.Name, len(p.FinancialGoals))
		return nil
	})
}

// parseGoals parses name=amount arguments. Goals named like an existing goal
// reuse its id.
func parseGoals(existing []wallet.FinancialGoal, args []string) ([]wallet.GoalInput, error) {
	ids := make(map[string]string, len(existing))
	for _, g := range existing {
		ids[strings.ToLower(g.Name)] = g.ID
	}
	goals := make([]wallet.GoalInput, 0, len(args))
	for _, arg := range args {
		name, amount, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: goal %q is not in the <name>=<amount> form", wallet.ErrValidation, arg)
		}
		a, err := wallet.ParseAmount(strings.TrimSpace(amount))
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		goals = append(goals, wallet.GoalInput{ID: ids[strings.ToLower(name)], Name: name, Amount: a})
	}
	return goals, nil
}
