package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet"
	"github.com/google/subcommands"
)

// --- Withdraw Command ---

type withdrawCmd struct {
	portfolio string
	amount    wallet.Amount
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "move capital from a portfolio to the savings" }
func (*withdrawCmd) Usage() string {
	return `wlt withdraw -p <portfolio> -a <amount>

  Withdraws amount from the current capital of a portfolio and credits the
  savings balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	amountVar(f, &c.amount, "a", "Amount to withdraw")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if p, err = l.WithdrawToSavings(ctx, p.ID, c.amount); err != nil {
			return err
		}
		fmt.Printf("Withdrew %s from %q, savings are %s\n", p.Money(c.amount), p.Name, l.SavingsBalance())
		return nil
	})
}

// --- Expense Command ---

type expenseCmd struct {
	description string
	amount      wallet.Amount
	category    string
	portfolio   string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense paid from the savings or a portfolio" }
func (*expenseCmd) Usage() string {
	return `wlt expense -d <description> -a <amount> [-c <category>] [-p <portfolio>]

  Records an expense. It is paid from the savings balance, or from the
  current capital of the portfolio given with -p.
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "d", "", "Description")
	amountVar(f, &c.amount, "a", "Amount")
	f.StringVar(&c.category, "c", string(wallet.Other), "Category code or label")
	f.StringVar(&c.portfolio, "p", "", "Portfolio paying the expense, savings when empty")
}

func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cat, err := wallet.ParseCategory(c.category)
	if err != nil {
		return fail(err)
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		in := wallet.NewExpense{Description: c.description, Amount: c.amount, Category: cat}
		if c.portfolio != "" {
			p, err := resolvePortfolio(l, c.portfolio)
			if err != nil {
				return err
			}
			in.PortfolioID = p.ID
		}
		e, err := l.AddExpense(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded expense %s: %s %s\n", e.ID, e.Description, e.Amount)
		return nil
	})
}

// --- Remove Expense Command ---

type rmExpenseCmd struct {
	expense string
	yes     bool
}

func (*rmExpenseCmd) Name() string     { return "rm-expense" }
func (*rmExpenseCmd) Synopsis() string { return "delete an expense and refund its amount" }
func (*rmExpenseCmd) Usage() string {
	return `wlt rm-expense -e <expense> [-y]

  Deletes an expense. The amount returns to the portfolio that paid it when
  it still exists, to the savings otherwise.
`
}

func (c *rmExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.expense, "e", "", "Expense id")
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *rmExpenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.expense == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		if err := confirm(os.Stdin, os.Stderr, fmt.Sprintf("Delete expense %s?", c.expense), c.yes); err != nil {
			return err
		}
		if err := l.DeleteExpense(ctx, c.expense); err != nil {
			return err
		}
		fmt.Printf("Deleted expense %s, savings are %s\n", c.expense, l.SavingsBalance())
		return nil
	})
}
