package restock

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeLedger_RoundTrip(t *testing.T) {
	buy := NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10.5), USD(187.33))
	buy.Name = "Apple Inc."
	buy.Memo = "long term"
	sell := NewSell(MustParseDate("2025-02-01"), "AAPL", Q(3), USD(201.10))
	sell.ID = "0f8fad5b-d9cb-469f-a165-70867728950e"

	ledger := NewLedger(buy, sell)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	decoded, issues, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("DecodeLedger() issues = %v, want none", issues)
	}
	if decoded.Len() != 2 {
		t.Fatalf("decoded %d transactions, want 2", decoded.Len())
	}
	want := []Transaction{buy, sell}
	for i, tx := range decoded.Transactions() {
		if !tx.Equal(want[i]) {
			t.Errorf("transaction %d = %+v, want %+v", i, tx, want[i])
		}
	}
}

func TestEncodeTransaction_Format(t *testing.T) {
	tx := NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(187.33))

	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatalf("EncodeTransaction() error = %v", err)
	}
	got := buf.String()

	// One line, numbers unquoted, command discriminator present.
	if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
		t.Errorf("want exactly one JSONL line, got %q", got)
	}
	for _, fragment := range []string{`"command":"buy"`, `"date":"2025-01-10"`, `"security":"AAPL"`, `"quantity":10`, `"price":187.33`, `"currency":"USD"`} {
		if !strings.Contains(got, fragment) {
			t.Errorf("line %q missing %s", got, fragment)
		}
	}
}

func TestDecodeLedger_CollectsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"buy","date":"2025-01-10","security":"AAPL","quantity":10,"price":100,"currency":"USD"}`,
		`not json at all`,
		``,
		`{"command":"sell","date":"2025-02-01","security":"AAPL","quantity":-4,"price":120,"currency":"USD"}`,
		`{"command":"sell","date":"2025-02-02","security":"AAPL","quantity":4,"price":120,"currency":"USD"}`,
	}, "\n")

	ledger, issues, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if ledger.Len() != 2 {
		t.Errorf("decoded %d transactions, want 2 valid ones", ledger.Len())
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2", issues)
	}

	// Line numbers must point at the offending lines, skipping the blank.
	wantRows := []int{2, 4}
	for i, issue := range issues {
		var verr *ValidationError
		if !errors.As(issue, &verr) {
			t.Fatalf("issue %d = %T, want *ValidationError", i, issue)
		}
		if verr.Row != wantRows[i] {
			t.Errorf("issue %d row = %d, want %d", i, verr.Row, wantRows[i])
		}
	}
}

func TestDecodeLedger_SortsOutOfOrderInput(t *testing.T) {
	input := strings.Join([]string{
		`{"command":"sell","date":"2025-02-01","security":"AAPL","quantity":5,"price":180,"currency":"USD"}`,
		`{"command":"buy","date":"2025-01-10","security":"AAPL","quantity":10,"price":100,"currency":"USD"}`,
	}, "\n")

	ledger, _, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	// The buy predates the sell, so consolidation must succeed.
	_, issues := Consolidate(ledger)
	if len(issues) != 0 {
		t.Errorf("Consolidate() issues = %v, want none once sorted", issues)
	}
}
