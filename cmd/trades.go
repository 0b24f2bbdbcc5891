package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/wallet"
	"github.com/google/subcommands"
)

// --- Open Command ---

type openCmd struct {
	portfolio  string
	stock      string
	price      wallet.Amount
	value      wallet.Amount
	stopLoss   wallet.Amount
	takeProfit wallet.Amount
	risk       float64
	notes      string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a trade, debiting its value from the capital" }
func (*openCmd) Usage() string {
	return `wlt open -p <portfolio> -s <stock> -price <price> (-v <value> | -risk <percent>) -sl <stop loss> -tp <take profit> [-m <notes>]

  Opens a trade. The trade value is committed and leaves the current capital
  until the trade is closed. With -risk, the value is sized so that hitting
  the stop loss costs that percentage of the current capital.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.StringVar(&c.stock, "s", "", "Stock ticker")
	amountVar(f, &c.price, "price", "Purchase price per share")
	amountVar(f, &c.value, "v", "Trade value, the capital committed")
	amountVar(f, &c.stopLoss, "sl", "Stop loss price")
	amountVar(f, &c.takeProfit, "tp", "Take profit price")
	f.Float64Var(&c.risk, "risk", 0, "Percentage of the capital to risk, sizes the trade value when -v is not set")
	f.StringVar(&c.notes, "m", "", "Optional notes")
}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.stock == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		value := c.value
		if value.IsZero() && c.risk > 0 {
			value = wallet.PositionSize(p.CurrentCapital, c.risk, c.price, c.stopLoss)
		}
		p, t, err := l.OpenTrade(ctx, p.ID, wallet.NewTrade{
			StockName:     c.stock,
			PurchasePrice: c.price,
			TradeValue:    value,
			StopLoss:      c.stopLoss,
			TakeProfit:    c.takeProfit,
			Notes:         c.notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Opened trade %s: %s shares of %s, capital left %s\n", t.ID, t.Quantity(), t.StockName, p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Edit Command ---

type editCmd struct {
	portfolio  string
	trade      string
	stock      string
	notes      string
	price      *wallet.Amount
	value      *wallet.Amount
	stopLoss   *wallet.Amount
	takeProfit *wallet.Amount
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit an open trade" }
func (*editCmd) Usage() string {
	return `wlt edit -p <portfolio> -t <trade> [-s <stock>] [-price <price>] [-v <value>] [-sl <stop loss>] [-tp <take profit>] [-m <notes>]

  Edits the fields given of an open trade. Changing the value moves the
  difference between the trade and the current capital.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.StringVar(&c.trade, "t", "", "Trade id")
	f.StringVar(&c.stock, "s", "", "New stock ticker")
	f.StringVar(&c.notes, "m", "", "New notes")
	optionalAmountVar(f, &c.price, "price", "New purchase price")
	optionalAmountVar(f, &c.value, "v", "New trade value")
	optionalAmountVar(f, &c.stopLoss, "sl", "New stop loss")
	optionalAmountVar(f, &c.takeProfit, "tp", "New take profit")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.trade == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	e := wallet.TradeEdit{
		PurchasePrice: c.price,
		TradeValue:    c.value,
		StopLoss:      c.stopLoss,
		TakeProfit:    c.takeProfit,
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "s":
			e.StockName = &c.stock
		case "m":
			e.Notes = &c.notes
		}
	})
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if p, err = l.EditTrade(ctx, p.ID, c.trade, e); err != nil {
			return err
		}
		fmt.Printf("Edited trade %s, capital is %s\n", c.trade, p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Close Command ---

type closeCmd struct {
	portfolio string
	trade     string
	price     wallet.Amount
}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "close an open trade at a price" }
func (*closeCmd) Usage() string {
	return `wlt close -p <portfolio> -t <trade> -price <close price>

  Closes a trade. The shares are sold at the close price and the proceeds
  return to the current capital.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.StringVar(&c.trade, "t", "", "Trade id")
	amountVar(f, &c.price, "price", "Close price per share")
}

func (c *closeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.trade == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		if p, err = l.CloseTrade(ctx, p.ID, c.trade, c.price); err != nil {
			return err
		}
		t, err := p.Trade(c.trade)
		if err != nil {
			return err
		}
		fmt.Printf("Closed %s with %s (%s), capital is %s\n",
			t.StockName, t.Outcome, p.Money(wallet.TradePnL(t)).SignedString(), p.Money(p.CurrentCapital))
		return nil
	})
}

// --- Remove Trade Command ---

type rmTradeCmd struct {
	portfolio string
	trade     string
	yes       bool
}

func (*rmTradeCmd) Name() string     { return "rm-trade" }
func (*rmTradeCmd) Synopsis() string { return "delete a trade and reverse its effect on the capital" }
func (*rmTradeCmd) Usage() string {
	return `wlt rm-trade -p <portfolio> -t <trade> [-y]

  Deletes a trade. An open trade returns its value to the capital, a closed
  trade takes back its realized profit or loss.
`
}

func (c *rmTradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id or name")
	f.StringVar(&c.trade, "t", "", "Trade id")
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *rmTradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.trade == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p, err := resolvePortfolio(l, c.portfolio)
		if err != nil {
			return err
		}
		t, err := p.Trade(c.trade)
		if err != nil {
			return err
		}
		prompt := fmt.Sprintf("Delete the %s trade on %s?", t.Status, t.StockName)
		if err := confirm(os.Stdin, os.Stderr, prompt, c.yes); err != nil {
			return err
		}
		if p, err = l.DeleteTrade(ctx, p.ID, t.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted trade %s, capital is %s\n", t.ID, p.Money(p.CurrentCapital))
		return nil
	})
}
