package restock

import (
	"errors"
	"fmt"
	"strings"
)

// Action is a typed string identifying the kind of a transaction.
type Action string

const (
	// Buy adds shares to a position at a given price per share.
	Buy Action = "buy"
	// Sell removes shares from a position at a given price per share.
	Sell Action = "sell"
)

// ParseAction parses a string into an Action. It accepts any casing, so that
// spreadsheet exports with "BUY"/"Sell" cells decode cleanly.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Transaction is a single buy or sell of a security.
//
// The Date is used only for ordering (and day-change context in reports);
// same-day transactions keep their ledger order.
type Transaction struct {
	ID       string   // optional unique identifier, assigned on import
	Date     Date     // day the transaction took place
	Action   Action   // buy or sell
	Security string   // ticker, normalized (uppercased, trimmed)
	Name     string   // optional company name
	Quantity Quantity // number of shares, positive
	Price    Money    // execution price per share, positive
	Memo     string   // optional rationale for the transaction
}

// NewBuy creates a new buy transaction.
func NewBuy(day Date, security string, quantity Quantity, price Money) Transaction {
	return Transaction{Date: day, Action: Buy, Security: NormalizeSymbol(security), Quantity: quantity, Price: price}
}

// NewSell creates a new sell transaction.
func NewSell(day Date, security string, quantity Quantity, price Money) Transaction {
	return Transaction{Date: day, Action: Sell, Security: NormalizeSymbol(security), Quantity: quantity, Price: price}
}

// NormalizeSymbol returns the canonical form of a ticker symbol: uppercased
// and trimmed. Positions are keyed by the canonical form so that case or
// whitespace variance in the input cannot split one security into two.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate checks the transaction for correctness and applies quick fixes:
// the security ticker is normalized, and a zero date is set to today.
func (t *Transaction) Validate() error {
	t.Security = NormalizeSymbol(t.Security)
	if t.Security == "" {
		return errors.New("security ticker is missing")
	}
	if t.Action != Buy && t.Action != Sell {
		return fmt.Errorf("unknown action %q", string(t.Action))
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%s quantity must be positive, got %s", t.Action, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%s price must be positive, got %s", t.Action, t.Price)
	}
	if t.Date.IsZero() {
		t.Date = Today()
	}
	return nil
}

// Equal reports whether two transactions have the same content, ignoring the ID.
func (t Transaction) Equal(o Transaction) bool {
	return t.Date == o.Date &&
		t.Action == o.Action &&
		t.Security == o.Security &&
		t.Name == o.Name &&
		t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) &&
		t.Memo == o.Memo
}
