package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ellenvlimanauw-eng/restock"
	"github.com/google/subcommands"
)

type buyCmd struct {
	date string
	name string
	memo string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares in the ledger" }
func (*buyCmd) Usage() string {
	return `restock buy [-d <date>] [-n <name>] [-m <memo>] <ticker> <quantity> <price>

  Appends a buy transaction to the ledger. The price is per share, in the
  reporting currency. The date defaults to today.

Usage Examples:
# Bought 10 Apple shares at 150.25 each.
$ restock buy -n "Apple Inc." AAPL 10 150.25

`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Transaction date (default today).")
	f.StringVar(&p.name, "n", "", "Company name to record with the transaction.")
	f.StringVar(&p.memo, "m", "", "Free text rationale for the transaction.")
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, cfg, status := parseTransactionArgs(f, restock.Buy, p.date, p.name, p.memo)
	if status != subcommands.ExitSuccess {
		return status
	}
	return appendTransaction(cfg, tx)
}

// parseTransactionArgs builds a transaction from the `<ticker> <quantity>
// <price>` positional arguments shared by buy and sell.
func parseTransactionArgs(f *flag.FlagSet, action restock.Action, date, name, memo string) (restock.Transaction, Config, subcommands.ExitStatus) {
	var tx restock.Transaction

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return tx, cfg, subcommands.ExitFailure
	}

	args := f.Args()
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "Error: want <ticker> <quantity> <price>, got %d arguments\n", len(args))
		return tx, cfg, subcommands.ExitUsageError
	}

	day := restock.Today()
	if date != "" {
		day, err = restock.ParseDate(date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return tx, cfg, subcommands.ExitFailure
		}
	}
	quantity, err := restock.ParseQuantity(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return tx, cfg, subcommands.ExitFailure
	}
	price, err := restock.ParseMoney(args[2], cfg.Currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return tx, cfg, subcommands.ExitFailure
	}

	tx = restock.Transaction{
		Date:     day,
		Action:   action,
		Security: args[0],
		Name:     name,
		Quantity: quantity,
		Price:    price,
		Memo:     memo,
	}
	if err := tx.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return tx, cfg, subcommands.ExitFailure
	}
	return tx, cfg, subcommands.ExitSuccess
}
