package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock"
	"github.com/google/subcommands"
)

type sellCmd struct {
	date string
	name string
	memo string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares in the ledger" }
func (*sellCmd) Usage() string {
	return `restock sell [-d <date>] [-n <name>] [-m <memo>] <ticker> <quantity> <price>

  Appends a sell transaction to the ledger. The price is per share, in the
  reporting currency. The date defaults to today.

  Selling more shares than held is refused at consolidation time, but this
  command already warns when the ledger cannot cover the sale.

`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Transaction date (default today).")
	f.StringVar(&p.name, "n", "", "Company name to record with the transaction.")
	f.StringVar(&p.memo, "m", "", "Free text rationale for the transaction.")
}

func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, cfg, status := parseTransactionArgs(f, restock.Sell, p.date, p.name, p.memo)
	if status != subcommands.ExitSuccess {
		return status
	}

	// Early warning: check the sale against the current holdings. The
	// transaction is appended either way; the ledger stays the source of
	// truth and consolidation reports the problem again.
	issues, err := checkOversell(cfg, tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot check holdings: %v\n", err)
	}
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "warning: %v\n", issue)
	}

	return appendTransaction(cfg, tx)
}

// checkOversell consolidates the ledger with the candidate transaction
// appended and returns the issues that would raise.
func checkOversell(cfg Config, tx restock.Transaction) ([]error, error) {
	ledger, err := decodeLedger(cfg)
	if err != nil {
		return nil, err
	}
	ledger.Append(tx)
	_, issues := restock.Consolidate(ledger)
	return issues, nil
}
