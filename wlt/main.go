// Command wlt manages trading portfolios, their goals and the savings they feed.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/wallet/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "wlt")
	cmd.Register(commander, flag.CommandLine)

	// exits when invoked by the shell for completion.
	cmd.Completion(flag.CommandLine).Complete("wlt")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
