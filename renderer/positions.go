package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/ellenvlimanauw-eng/restock"
)

// PositionsMarkdown renders the per-position table of a report.
func PositionsMarkdown(report *restock.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Positions on %s\n\n", report.Date)

	open := 0
	for i := range report.Positions {
		if report.Positions[i].Open() {
			open++
		}
	}
	if open > 0 {
		fmt.Fprintln(&b, "| Ticker | Name | Shares | Avg Cost | Price | Market Value | Unrealized | Day | Yield | Alloc |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
		for i := range report.Positions {
			vp := &report.Positions[i]
			if !vp.Open() {
				continue
			}
			if !vp.Quoted {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | n/a | n/a | n/a | n/a | n/a | n/a |\n",
					vp.Security, vp.Name, vp.Quantity, vp.AvgCost())
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s (%s) | %s | %s | %s |\n",
				vp.Security,
				vp.Name,
				vp.Quantity,
				vp.AvgCost(),
				vp.Quote.Price,
				vp.MarketValue,
				vp.UnrealizedGain.SignedString(), vp.UnrealizedPct.SignedString(),
				vp.DayChange.SignedString(),
				vp.DividendYield,
				vp.Allocation,
			)
		}
	}

	closedSection(&b, report)

	if len(report.Missing) > 0 {
		fmt.Fprintf(&b, "\n> No market data for %s.\n", strings.Join(report.Missing, ", "))
	}
	return b.String()
}

// closedSection lists fully liquidated positions and their realized gains.
func closedSection(b *strings.Builder, report *restock.Report) {
	printer := Header(func(w io.Writer) {
		fmt.Fprint(w, "\n## Closed Positions\n\n")
		fmt.Fprintln(w, "| Ticker | Name | Realized Gain |")
		fmt.Fprintln(w, "|:---|:---|---:|")
	})
	for i := range report.Positions {
		vp := &report.Positions[i]
		if !vp.Closed() {
			continue
		}
		printer.PrintHeader(b)
		fmt.Fprintf(b, "| %s | %s | %s |\n", vp.Security, vp.Name, vp.RealizedGain.SignedString())
	}
}

// TransactionsMarkdown renders the ledger as a markdown table, in
// chronological order.
func TransactionsMarkdown(ledger *restock.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Action | Ticker | Shares | Price | Memo |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|:---|")
	for _, tx := range ledger.Transactions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Action, tx.Security, tx.Quantity, tx.Price, tx.Memo)
	}
	return b.String()
}

// Transaction renders a transaction to a one line string.
func Transaction(tx restock.Transaction) string {
	switch tx.Action {
	case restock.Buy:
		return fmt.Sprintf("Bought %s of %s at %s", tx.Quantity, tx.Security, tx.Price)
	case restock.Sell:
		return fmt.Sprintf("Sold %s of %s at %s", tx.Quantity, tx.Security, tx.Price)
	default:
		return fmt.Sprintf("%s %s of %s", tx.Action, tx.Quantity, tx.Security)
	}
}
