package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show the consolidated positions at market value" }
func (*positionsCmd) Usage() string {
	return `restock positions

  Consolidates the ledger into per-security positions, fetches live quotes
  for the open ones and prints the position table: shares, average cost,
  market value, unrealized and day gains, dividend yield and allocation.
  Closed positions appear with their realized gain.
`
}

func (p *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (p *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report, err := valuedReport(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(report))
	return subcommands.ExitSuccess
}
