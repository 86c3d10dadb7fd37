package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock/renderer"
	"github.com/google/subcommands"
)

type sectorsCmd struct{}

func (*sectorsCmd) Name() string     { return "sectors" }
func (*sectorsCmd) Synopsis() string { return "show the portfolio allocation by sector" }
func (*sectorsCmd) Usage() string {
	return `restock sectors

  Groups the open positions by the sector reported with their quotes and
  prints per-sector market value, gain and allocation. Positions whose quote
  carries no sector are grouped under "Unknown".
`
}

func (p *sectorsCmd) SetFlags(f *flag.FlagSet) {}

func (p *sectorsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.SectorsMarkdown(report))
	return subcommands.ExitSuccess
}
