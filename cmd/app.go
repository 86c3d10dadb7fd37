// Package cmd implements the CLI application to manage a stock portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/ellenvlimanauw-eng/restock"
	"github.com/ellenvlimanauw-eng/restock/yahoo"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&sectorsCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the config file (default restock.yaml when present)")

func loadConfig() (Config, error) { return LoadConfig(*configFile) }

// decodeLedger loads the configured ledger file. A missing file is an empty
// ledger, not an error. Malformed lines are reported to stderr and skipped.
func decodeLedger(cfg Config) (*restock.Ledger, error) {
	f, err := os.Open(cfg.Ledger)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, ledger %q does not exist, starting empty", cfg.Ledger)
		return restock.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %q: %w", cfg.Ledger, err)
	}
	defer f.Close()

	ledger, issues, err := restock.DecodeLedger(f)
	if err != nil {
		return nil, err
	}
	printIssues(issues)
	return ledger, nil
}

// appendTransaction appends a single transaction to the configured ledger
// file, creating it if needed.
func appendTransaction(cfg Config, tx restock.Transaction) subcommands.ExitStatus {
	f, err := os.OpenFile(cfg.Ledger, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", cfg.Ledger, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := restock.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", cfg.Ledger, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Appended to %s: %s\n", cfg.Ledger, describe(tx))
	return subcommands.ExitSuccess
}

func describe(tx restock.Transaction) string {
	return fmt.Sprintf("%s %s %s @ %s on %s", tx.Action, tx.Quantity, tx.Security, tx.Price, tx.Date)
}

// printIssues reports per-row problems to stderr and returns their count.
func printIssues(issues []error) int {
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, issue)
	}
	return len(issues)
}

// printMarkdown renders a markdown document for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw document
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// valuedReport consolidates the ledger and values the open positions with
// live quotes. Quote failures are reported to stderr but never abort the
// report.
func valuedReport(cfg Config) (*restock.Report, error) {
	ledger, err := decodeLedger(cfg)
	if err != nil {
		return nil, err
	}
	book, issues := restock.Consolidate(ledger)
	printIssues(issues)

	var symbols []string
	for pos := range book.Active() {
		symbols = append(symbols, pos.Security)
	}

	provider := yahoo.NewProvider(
		yahoo.WithTTL(time.Duration(cfg.CacheTTL)),
		yahoo.WithRetry(cfg.Retries, time.Duration(cfg.RetryDelay)),
	)
	quotes, failures := restock.FetchQuotes(provider, symbols)
	for symbol, err := range failures {
		fmt.Fprintf(os.Stderr, "no quote for %s: %v\n", symbol, err)
	}

	return restock.Valuate(book, quotes, restock.Today(), cfg.Currency), nil
}
