package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the portfolio-level totals" }
func (*summaryCmd) Usage() string {
	return `restock summary

  Prints the portfolio aggregates: total market value, cost basis, unrealized
  and realized gains, day change, annual dividend income and yield, plus the
  best and worst performers.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.SummaryMarkdown(report))
	return subcommands.ExitSuccess
}
