package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock"
	"github.com/google/subcommands"
)

type importCmd struct {
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a spreadsheet CSV export" }
func (*importCmd) Usage() string {
	return `restock import [-dry-run] <file.csv>

  Reads a CSV with columns date, ticker, type, name, shares, price (a header
  row is detected and skipped) and appends its transactions to the ledger.
  Malformed rows are reported with their row number and skipped; the command
  exits nonzero when any row was rejected.

Usage Examples:
# Import a sheet export, checking it first.
$ restock import -dry-run export.csv
$ restock import export.csv

`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.dryRun, "dry-run", false, "Validate the file without touching the ledger.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Error: want exactly one CSV file to import")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	txs, issues, err := restock.ImportTransactions(file, cfg.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	rejected := printIssues(issues)

	if p.dryRun {
		fmt.Printf("%d transactions would be imported, %d rows rejected\n", len(txs), rejected)
	} else {
		ledger, err := os.OpenFile(cfg.Ledger, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", cfg.Ledger, err)
			return subcommands.ExitFailure
		}
		defer ledger.Close()
		for _, tx := range txs {
			if err := restock.EncodeTransaction(ledger, tx); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", cfg.Ledger, err)
				return subcommands.ExitFailure
			}
		}
		fmt.Printf("Imported %d transactions into %s, %d rows rejected\n", len(txs), cfg.Ledger, rejected)
	}

	if rejected > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
