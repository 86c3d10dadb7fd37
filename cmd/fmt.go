package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ellenvlimanauw-eng/restock"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `restock fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, sorts them by date, and writes them back in a canonical
  JSONL format. Malformed lines are reported and dropped from the rewritten
  file, so check the output before committing the result.

`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	file, err := os.Open(cfg.Ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger %q: %v\n", cfg.Ledger, err)
		return subcommands.ExitFailure
	}
	ledger, issues, err := restock.DecodeLedger(file)
	file.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	dropped := printIssues(issues)

	// Write to a sibling temp file and rename, so a failure cannot truncate
	// the ledger.
	mode := os.FileMode(0644)
	if info, err := os.Stat(cfg.Ledger); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(cfg.Ledger), filepath.Base(cfg.Ledger)+".fmt-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// CreateTemp opens 0600; the rewritten ledger keeps the original mode.
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := restock.EncodeLedger(tmp, ledger); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp.Name(), cfg.Ledger); err != nil {
		os.Remove(tmp.Name())
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Formatted %s: %d transactions, %d malformed lines dropped\n", cfg.Ledger, ledger.Len(), dropped)
	return subcommands.ExitSuccess
}
