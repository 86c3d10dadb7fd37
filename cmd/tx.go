package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock"
	"github.com/ellenvlimanauw-eng/restock/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	ticker string
	action string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the ledger" }
func (*txCmd) Usage() string {
	return `restock tx [-t <ticker>] [-a <action>]

  Lists transactions from the ledger in chronological order, optionally
  filtered by ticker or action.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ticker, "t", "", "Show only transactions of this ticker.")
	f.StringVar(&p.action, "a", "", "Show only buys or only sells.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := decodeLedger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var filters []func(restock.Transaction) bool
	if p.ticker != "" {
		filters = append(filters, restock.BySecurity(p.ticker))
	}
	if p.action != "" {
		action, err := restock.ParseAction(p.action)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, restock.ByAction(action))
	}

	// Filters are OR'd by the ledger; combining ticker and action needs the
	// intersection instead.
	selected := restock.NewLedger()
	for _, tx := range ledger.Transactions() {
		keep := true
		for _, filter := range filters {
			if !filter(tx) {
				keep = false
				break
			}
		}
		if keep {
			selected.Append(tx)
		}
	}

	printMarkdown(renderer.TransactionsMarkdown(selected))
	return subcommands.ExitSuccess
}
