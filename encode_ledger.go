package restock

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jtx is the persisted form of a transaction: one JSON object per JSONL line,
// the "command" property discriminating buys from sells.
type jtx struct {
	Command  string          `json:"command"`
	Date     Date            `json:"date"`
	Security string          `json:"security"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
	Name     string          `json:"name,omitempty"`
	Memo     string          `json:"memo,omitempty"`
	ID       string          `json:"id,omitempty"`
}

func (j jtx) transaction() Transaction {
	return Transaction{
		ID:       j.ID,
		Date:     j.Date,
		Action:   Action(j.Command),
		Security: j.Security,
		Name:     j.Name,
		Quantity: Q(j.Quantity),
		Price:    M(j.Price, j.Currency),
		Memo:     j.Memo,
	}
}

// DecodeLedger decodes transactions from a stream of JSONL data.
//
// Malformed lines do not abort the decoding: each one is reported as a
// *ValidationError carrying its 1-based line number, and the valid remainder
// is returned as a sorted Ledger. The error return is reserved for I/O
// failures on the reader itself.
func DecodeLedger(r io.Reader) (*Ledger, []error, error) {
	ledger := NewLedger()
	var issues []error

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue // Skip empty lines
		}

		var j jtx
		if err := json.Unmarshal([]byte(text), &j); err != nil {
			issues = append(issues, &ValidationError{Row: line, Reason: err.Error()})
			continue
		}

		tx := j.transaction()
		if err := tx.Validate(); err != nil {
			issues = append(issues, &ValidationError{Row: line, Reason: err.Error()})
			continue
		}
		ledger.Append(tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, issues, fmt.Errorf("error reading ledger: %w", err)
	}
	return ledger, issues, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	j := jtx{
		Command:  string(tx.Action),
		Date:     tx.Date,
		Security: tx.Security,
		Quantity: tx.Quantity.value,
		Price:    tx.Price.value,
		Currency: tx.Price.cur,
		Name:     tx.Name,
		Memo:     tx.Memo,
		ID:       tx.ID,
	}
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger transactions to an io.Writer in JSONL
// format, in chronological order (stable for same-day transactions).
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
