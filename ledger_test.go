package restock

import (
	"slices"
	"testing"
)

func TestLedger_ChronologicalOrder(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-03-01"), "c", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-01-01"), "a", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-02-01"), "b", Q(1), USD(1)),
	)

	var got []string
	for _, tx := range ledger.Transactions() {
		got = append(got, tx.Security)
	}
	if !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("order = %v, want chronological [A B C]", got)
	}
}

func TestLedger_SameDayKeepsAppendOrder(t *testing.T) {
	day := MustParseDate("2025-01-01")
	first := NewBuy(day, "AAPL", Q(1), USD(1))
	first.Memo = "first"
	second := NewSell(day, "AAPL", Q(1), USD(2))
	second.Memo = "second"

	ledger := NewLedger(first, second)
	ledger.Append(NewBuy(MustParseDate("2024-12-31"), "AAPL", Q(1), USD(1)))

	var memos []string
	for _, tx := range ledger.Transactions(BySecurity("aapl")) {
		memos = append(memos, tx.Memo)
	}
	if !slices.Equal(memos, []string{"", "first", "second"}) {
		t.Errorf("memos = %v, want same-day transactions in append order", memos)
	}
}

func TestLedger_Filters(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-01"), "AAPL", Q(1), USD(1)),
		NewSell(MustParseDate("2025-01-02"), "AAPL", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-01-03"), "GOOG", Q(1), USD(1)),
	)

	count := 0
	for _, tx := range ledger.Transactions(ByAction(Sell)) {
		count++
		if tx.Action != Sell {
			t.Errorf("filter leaked %s", tx.Action)
		}
	}
	if count != 1 {
		t.Errorf("sell count = %d, want 1", count)
	}

	// Several filters are combined with OR.
	count = 0
	for range ledger.Transactions(BySecurity("GOOG"), ByAction(Sell)) {
		count++
	}
	if count != 2 {
		t.Errorf("GOOG-or-sell count = %d, want 2", count)
	}
}

func TestLedger_Securities(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-01"), "msft", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-01-02"), "AAPL", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-01-03"), "AAPL", Q(1), USD(1)),
	)
	got := slices.Collect(ledger.Securities())
	if !slices.Equal(got, []string{"AAPL", "MSFT"}) {
		t.Errorf("Securities() = %v, want distinct sorted [AAPL MSFT]", got)
	}
}

func TestLedger_DateBounds(t *testing.T) {
	empty := NewLedger()
	if !empty.OldestTransactionDate().IsZero() || !empty.NewestTransactionDate().IsZero() {
		t.Error("empty ledger must report zero dates")
	}

	ledger := NewLedger(
		NewBuy(MustParseDate("2025-02-01"), "AAPL", Q(1), USD(1)),
		NewBuy(MustParseDate("2025-01-01"), "AAPL", Q(1), USD(1)),
	)
	if got := ledger.OldestTransactionDate(); got.String() != "2025-01-01" {
		t.Errorf("OldestTransactionDate = %s", got)
	}
	if got := ledger.NewestTransactionDate(); got.String() != "2025-02-01" {
		t.Errorf("NewestTransactionDate = %s", got)
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{"valid", func(tx *Transaction) {}, false},
		{"lowercase ticker normalized", func(tx *Transaction) { tx.Security = " aapl " }, false},
		{"empty ticker", func(tx *Transaction) { tx.Security = "" }, true},
		{"unknown action", func(tx *Transaction) { tx.Action = "hold" }, true},
		{"zero quantity", func(tx *Transaction) { tx.Quantity = Q(0) }, true},
		{"negative quantity", func(tx *Transaction) { tx.Quantity = Q(-1) }, true},
		{"zero price", func(tx *Transaction) { tx.Price = USD(0) }, true},
		{"negative price", func(tx *Transaction) { tx.Price = USD(-5) }, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tx := NewBuy(MustParseDate("2025-01-01"), "AAPL", Q(1), USD(100))
			test.mutate(&tx)
			err := tx.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, test.wantErr)
			}
			if !test.wantErr && tx.Security != "AAPL" {
				t.Errorf("Security = %q, want normalized AAPL", tx.Security)
			}
		})
	}
}
