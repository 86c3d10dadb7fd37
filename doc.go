// Package restock derives consolidated portfolio positions from a ledger of
// buy and sell stock transactions.
//
// The core functionalities include:
//   - Ledger Management: recording buy and sell transactions in a
//     chronological record, persisted in a human-readable JSONL format, with
//     per-row validation that never aborts the whole ledger.
//   - Position Consolidation: a pure fold of the ledger into one Position per
//     security, tracking quantity held, the weighted-average cost basis of the
//     shares still held, and the realized gain locked in by sales. Selling
//     more than held is a hard error, never silently clamped.
//   - Valuation: annotating positions with externally supplied market data
//     (current price, previous close, annual dividend, sector) to compute
//     unrealized gains, day change, dividend income, allocation percentages
//     and sector breakdowns. Missing quotes are recoverable per security.
//
// All monetary amounts and share quantities are exact decimals (Money and
// Quantity wrap shopspring/decimal). The consolidation engine performs no I/O
// and is a pure function of its input; quote fetching belongs to collaborator
// packages such as yahoo.
//
// This package serves as the foundational logic for the `restock`
// command-line tool.
package restock
