package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/wallet/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the guides on portfolios, trades, savings and data" }
func (*topicCmd) Usage() string {
	return `wlt topic [-list] [<topic>... | '*']

  Prints the guides of the given topics. Without a topic, prints the
  introduction and the list of topics; '*' prints every guide.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print the topic names only")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return fail(err)
		}
		fmt.Println(strings.Join(topics, "\n"))
		return subcommands.ExitSuccess
	}
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	guide, err := docs.GetTopics(topics...)
	if err != nil {
		return fail(fmt.Errorf("no guide for %s: %w", strings.Join(topics, ", "), err))
	}
	printMarkdown(guide)
	return subcommands.ExitSuccess
}
