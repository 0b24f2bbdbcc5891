package cmd

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/etnz/wallet"
	"github.com/etnz/wallet/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of wlt, with the global flags
// of fs and every registered subcommand.
func Completion(fs *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(fs, nil),
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	for _, g := range Commands {
		for _, c := range g.Commands {
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			root.Sub[c.Name()] = &complete.Command{
				Flags: flagPredictors(f, flagHints),
				Args:  argHints[c.Name()],
			}
		}
	}
	return root
}

// flagHints predicts flag values by flag name.
var flagHints = map[string]complete.Predictor{
	"p":     complete.PredictFunc(predictPortfolios),
	"c":     predictCategories{},
	"o":     predict.Files("*.json"),
	"cur":   predict.Set{"EGP", "USD", "EUR", "SAR", "AED"},
	"store": predict.Set{StoreSQLite, StoreDir, StoreMemory},
}

// argHints predicts positional arguments by subcommand.
var argHints = map[string]complete.Predictor{
	"import":        predict.Files("*.json"),
	"notifications": predict.Set{"on", "off"},
	"topic":         complete.PredictFunc(predictTopics),
}

func flagPredictors(f *flag.FlagSet, hints map[string]complete.Predictor) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		if p, ok := hints[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

// predictCategories predicts expense category codes. The -c flag of create
// is an amount, for which the codes never match a digit prefix.
type predictCategories struct{}

func (predictCategories) Predict(prefix string) []string {
	var res []string
	for _, c := range wallet.Categories {
		if strings.HasPrefix(string(c), prefix) {
			res = append(res, string(c))
		}
	}
	return res
}

// predictPortfolios predicts portfolio names from the configured ledger. It
// stays silent when the ledger cannot be opened.
func predictPortfolios(prefix string) []string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cfg.LogLevel = "disabled"
	l, release, err := openLedger(ctx)
	if err != nil {
		return nil
	}
	defer release()
	var res []string
	for _, p := range l.Portfolios() {
		if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(prefix)) {
			res = append(res, p.Name)
		}
	}
	return res
}

func predictTopics(prefix string) []string {
	topics, _ := docs.GetAllTopics()
	var res []string
	for _, t := range topics {
		if strings.HasPrefix(t, prefix) {
			res = append(res, t)
		}
	}
	return res
}
