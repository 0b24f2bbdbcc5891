package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/etnz/wallet"
	"github.com/google/subcommands"
)

// --- Export Command ---

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the whole account as a JSON snapshot" }
func (*exportCmd) Usage() string {
	return `wlt export [-o <file>]

  Writes the profile, portfolios, expenses and savings balance as a JSON
  snapshot, on stdout by default.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		var w io.Writer = os.Stdout
		if c.output != "" {
			file, err := os.Create(c.output)
			if err != nil {
				return fmt.Errorf("could not create %q: %w", c.output, err)
			}
			defer file.Close()
			w = file
		}
		s := l.Export()
		if err := wallet.EncodeSnapshot(w, s); err != nil {
			return err
		}
		if c.output != "" {
			fmt.Fprintf(os.Stderr, "Exported %d portfolios and %d expenses to %s\n", len(s.Portfolios), len(s.Expenses), c.output)
		}
		return nil
	})
}

// --- Import Command ---

type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the whole account with a JSON snapshot" }
func (*importCmd) Usage() string {
	return `wlt import [-y] <file>

  Replaces every portfolio, expense and the savings balance with the content
  of a snapshot produced by export. When an account email is configured, the
  snapshot profile must carry the same email.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	defer file.Close()
	s, err := wallet.DecodeSnapshot(file, wallet.ImportOptions{Email: cfg.Email})
	if err != nil {
		return fail(err)
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		prompt := fmt.Sprintf("Replace %d portfolios with the %d of %s?", len(l.Portfolios()), len(s.Portfolios), f.Arg(0))
		if err := confirm(os.Stdin, os.Stderr, prompt, c.yes); err != nil {
			return err
		}
		if err := l.Import(ctx, s); err != nil {
			return err
		}
		fmt.Printf("Imported %d portfolios and %d expenses\n", len(s.Portfolios), len(s.Expenses))
		return nil
	})
}

// --- Reset All Command ---

type resetAllCmd struct {
	yes bool
}

func (*resetAllCmd) Name() string     { return "reset-all" }
func (*resetAllCmd) Synopsis() string { return "delete every portfolio, expense and the savings" }
func (*resetAllCmd) Usage() string {
	return `wlt reset-all [-y]

  Deletes all the account data. The notification settings are kept.
`
}

func (c *resetAllCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *resetAllCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		if err := confirm(os.Stdin, os.Stderr, "Delete all the account data?", c.yes); err != nil {
			return err
		}
		if err := l.ResetAll(ctx); err != nil {
			return err
		}
		fmt.Println("All data deleted")
		return nil
	})
}

// --- Profile Command ---

type profileCmd struct {
	profile wallet.Profile
}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "display or update the account profile" }
func (*profileCmd) Usage() string {
	return `wlt profile [-name <name>] [-email <email>] [-phone <phone>] [-country <country>] [-city <city>]

  Without flags, prints the profile. Otherwise updates the fields given.
`
}

func (c *profileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.profile.Name, "name", "", "Full name")
	f.StringVar(&c.profile.Email, "email", "", "Email")
	f.StringVar(&c.profile.Phone, "phone", "", "Phone number")
	f.StringVar(&c.profile.Country, "country", "", "Country")
	f.StringVar(&c.profile.City, "city", "", "City")
}

func (c *profileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *wallet.Ledger) error {
		p := l.Profile()
		if f.NFlag() == 0 {
			return printJSON(p)
		}
		f.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "name":
				p.Name = c.profile.Name
			case "email":
				p.Email = c.profile.Email
			case "phone":
				p.Phone = c.profile.Phone
			case "country":
				p.Country = c.profile.Country
			case "city":
				p.City = c.profile.City
			}
		})
		if err := l.SetProfile(ctx, p); err != nil {
			return err
		}
		fmt.Println("Profile updated")
		return nil
	})
}

// --- Notifications Command ---

type notificationsCmd struct{}

func (*notificationsCmd) Name() string     { return "notifications" }
func (*notificationsCmd) Synopsis() string { return "display or switch the goal notifications" }
func (*notificationsCmd) Usage() string {
	return `wlt notifications [on|off]

  Without argument, prints whether goal notifications are enabled.
`
}

func (c *notificationsCmd) SetFlags(f *flag.FlagSet) {}

func (c *notificationsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withLedger(ctx, func(l *wallet.Ledger) error {
		if f.NArg() == 0 {
			fmt.Println(onOff(l.Settings().NotificationsEnabled))
			return nil
		}
		enabled, err := parseOnOff(f.Arg(0))
		if err != nil {
			return err
		}
		if err := l.SetNotifications(ctx, enabled); err != nil {
			return err
		}
		fmt.Printf("Notifications %s\n", onOff(enabled))
		return nil
	})
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q is neither on nor off", wallet.ErrValidation, s)
	}
	return b, nil
}
