package restock

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// USD is a helper for tests to create usd money from const.
func USD(v float64) Money { return M(v, "USD") }

func TestConsolidate_AverageCost(t *testing.T) {
	// Scenario A: two buys, the average is the quantity-weighted mean.
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewBuy(MustParseDate("2025-01-20"), "AAPL", Q(10), USD(200)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 0 {
		t.Fatalf("Consolidate() issues = %v, want none", issues)
	}

	pos, ok := book.Position("AAPL")
	if !ok {
		t.Fatal("Position(AAPL) not found")
	}
	if !pos.Quantity.Equal(Q(20)) {
		t.Errorf("Quantity = %s, want 20", pos.Quantity)
	}
	if !pos.AvgCost().Equal(USD(150)) {
		t.Errorf("AvgCost = %s, want $150.00", pos.AvgCost())
	}
	if !pos.RealizedGain.IsZero() {
		t.Errorf("RealizedGain = %s, want zero", pos.RealizedGain)
	}
}

func TestConsolidate_SellRealizesGain(t *testing.T) {
	// Scenario B: a partial sell realizes gain against the average cost and
	// leaves the average unchanged.
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewBuy(MustParseDate("2025-01-20"), "AAPL", Q(10), USD(200)),
		NewSell(MustParseDate("2025-02-01"), "AAPL", Q(5), USD(180)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 0 {
		t.Fatalf("Consolidate() issues = %v, want none", issues)
	}

	pos, _ := book.Position("AAPL")
	if !pos.Quantity.Equal(Q(15)) {
		t.Errorf("Quantity = %s, want 15", pos.Quantity)
	}
	if !pos.AvgCost().Equal(USD(150)) {
		t.Errorf("AvgCost = %s, want $150.00 (unchanged by sell)", pos.AvgCost())
	}
	if !pos.RealizedGain.Equal(USD(150)) {
		t.Errorf("RealizedGain = %s, want $150.00", pos.RealizedGain)
	}
}

func TestConsolidate_FullLiquidation(t *testing.T) {
	// Scenario C: fully closing the position resets the basis but keeps the
	// cumulative realized gain.
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewBuy(MustParseDate("2025-01-20"), "AAPL", Q(10), USD(200)),
		NewSell(MustParseDate("2025-02-01"), "AAPL", Q(5), USD(180)),
		NewSell(MustParseDate("2025-03-01"), "AAPL", Q(15), USD(160)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 0 {
		t.Fatalf("Consolidate() issues = %v, want none", issues)
	}

	pos, _ := book.Position("AAPL")
	if !pos.Quantity.IsZero() {
		t.Errorf("Quantity = %s, want 0", pos.Quantity)
	}
	if !pos.AvgCost().IsZero() {
		t.Errorf("AvgCost = %s, want zero after liquidation", pos.AvgCost())
	}
	if !pos.CostBasis().IsZero() {
		t.Errorf("CostBasis = %s, want zero after liquidation", pos.CostBasis())
	}
	if !pos.RealizedGain.Equal(USD(300)) {
		t.Errorf("RealizedGain = %s, want $300.00 retained", pos.RealizedGain)
	}
	if !pos.Closed() {
		t.Error("Closed() = false, want true")
	}
}

func TestConsolidate_Overroll(t *testing.T) {
	// Scenario D: selling a security never bought is a hard error and leaves
	// the position untouched.
	ledger := NewLedger(
		NewSell(MustParseDate("2025-02-01"), "GOOG", Q(5), USD(100)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 1 {
		t.Fatalf("Consolidate() issues = %v, want exactly one", issues)
	}
	var overroll *OverrollError
	if !errors.As(issues[0], &overroll) {
		t.Fatalf("issue = %T, want *OverrollError", issues[0])
	}
	if overroll.Security != "GOOG" || !overroll.Requested.Equal(Q(5)) || !overroll.Held.IsZero() {
		t.Errorf("unexpected overroll detail: %v", overroll)
	}

	pos, ok := book.Position("GOOG")
	if !ok {
		t.Fatal("Position(GOOG) not found")
	}
	if !pos.Quantity.IsZero() || !pos.RealizedGain.IsZero() {
		t.Errorf("position mutated by oversell: quantity=%s realized=%s", pos.Quantity, pos.RealizedGain)
	}
	if _, broken := book.Overrolled("GOOG"); !broken {
		t.Error("Overrolled(GOOG) = false, want true")
	}
}

func TestConsolidate_ZeroQuantitySellIsAnIssue(t *testing.T) {
	// A sell of zero shares, even on an empty position, must be rejected as
	// an issue instead of hitting a division by zero.
	ledger := NewLedger(
		NewSell(MustParseDate("2025-02-01"), "GOOG", Q(0), USD(100)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 1 {
		t.Fatalf("Consolidate() issues = %v, want exactly one", issues)
	}
	var overroll *OverrollError
	if !errors.As(issues[0], &overroll) {
		t.Fatalf("issue = %T, want *OverrollError", issues[0])
	}

	pos, ok := book.Position("GOOG")
	if !ok {
		t.Fatal("Position(GOOG) not found")
	}
	if !pos.Quantity.IsZero() || !pos.RealizedGain.IsZero() {
		t.Errorf("position mutated by zero sell: quantity=%s realized=%s", pos.Quantity, pos.RealizedGain)
	}
}

func TestConsolidate_OverrollIsIsolatedPerSecurity(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewBuy(MustParseDate("2025-01-10"), "MSFT", Q(4), USD(300)),
		NewSell(MustParseDate("2025-01-15"), "MSFT", Q(10), USD(310)), // oversell
		NewBuy(MustParseDate("2025-01-20"), "MSFT", Q(4), USD(320)),  // ignored, consolidation stopped
		NewSell(MustParseDate("2025-02-01"), "AAPL", Q(5), USD(120)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 1 {
		t.Fatalf("Consolidate() issues = %v, want exactly one", issues)
	}

	aapl, _ := book.Position("AAPL")
	if !aapl.Quantity.Equal(Q(5)) || !aapl.RealizedGain.Equal(USD(100)) {
		t.Errorf("AAPL = %s shares, realized %s; oversell of MSFT must not affect it", aapl.Quantity, aapl.RealizedGain)
	}

	msft, _ := book.Position("MSFT")
	if !msft.Quantity.Equal(Q(4)) {
		t.Errorf("MSFT quantity = %s, want 4 (state before the oversell)", msft.Quantity)
	}
	if !msft.AvgCost().Equal(USD(300)) {
		t.Errorf("MSFT avg cost = %s, want $300.00 (later buy skipped)", msft.AvgCost())
	}
}

func TestConsolidate_WeightedAverageFromTotals(t *testing.T) {
	// For a buys-only ledger the average cost is the true weighted average of
	// the purchase prices, derived from the totals pair rather than an
	// incrementally updated mean.
	buys := []struct {
		qty   float64
		price float64
	}{
		{3, 10.10}, {7, 11.35}, {0.5, 9.99}, {12, 10.00}, {1.25, 15.40},
		{100, 10.01}, {0.1, 33.33}, {42, 12.12},
	}
	ledger := NewLedger()
	totalCost := decimal.Zero
	totalQty := decimal.Zero
	for i, b := range buys {
		ledger.Append(NewBuy(MustParseDate("2025-01-01").Add(i), "VT", Q(b.qty), USD(b.price)))
		totalCost = totalCost.Add(decimal.NewFromFloat(b.price).Mul(decimal.NewFromFloat(b.qty)))
		totalQty = totalQty.Add(decimal.NewFromFloat(b.qty))
	}

	book, _ := Consolidate(ledger)
	pos, _ := book.Position("VT")

	want := M(totalCost.Div(totalQty), "USD")
	if !pos.AvgCost().Equal(want) {
		t.Errorf("AvgCost = %s, want %s", pos.AvgCost(), want)
	}
}

func TestConsolidate_Idempotent(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewSell(MustParseDate("2025-02-01"), "AAPL", Q(4), USD(140)),
		NewBuy(MustParseDate("2025-02-02"), "GOOG", Q(2), USD(2800)),
	)
	first, _ := Consolidate(ledger)
	second, _ := Consolidate(ledger)

	for p1 := range first.Positions() {
		p2, ok := second.Position(p1.Security)
		if !ok {
			t.Fatalf("second run lost position %s", p1.Security)
		}
		if !p1.Quantity.Equal(p2.Quantity) || !p1.AvgCost().Equal(p2.AvgCost()) || !p1.RealizedGain.Equal(p2.RealizedGain) {
			t.Errorf("position %s differs between runs", p1.Security)
		}
	}
}

func TestConsolidate_SameDayLedgerOrder(t *testing.T) {
	// Same-day transactions are folded in ledger order: the buy below must be
	// seen before the sell even though both carry the same date.
	day := MustParseDate("2025-03-03")
	ledger := NewLedger(
		NewBuy(day, "NVDA", Q(10), USD(500)),
		NewSell(day, "NVDA", Q(10), USD(550)),
	)
	book, issues := Consolidate(ledger)
	if len(issues) != 0 {
		t.Fatalf("Consolidate() issues = %v, want none", issues)
	}
	pos, _ := book.Position("NVDA")
	if !pos.RealizedGain.Equal(USD(500)) {
		t.Errorf("RealizedGain = %s, want $500.00", pos.RealizedGain)
	}
}

func TestConsolidate_NameFirstNonEmptyWins(t *testing.T) {
	tx1 := NewBuy(MustParseDate("2025-01-01"), "AAPL", Q(1), USD(100))
	tx2 := NewBuy(MustParseDate("2025-01-02"), "AAPL", Q(1), USD(100))
	tx2.Name = "Apple Inc."
	tx3 := NewBuy(MustParseDate("2025-01-03"), "AAPL", Q(1), USD(100))
	tx3.Name = "Apple Incorporated"

	book, _ := Consolidate(NewLedger(tx1, tx2, tx3))
	pos, _ := book.Position("AAPL")
	if pos.Name != "Apple Inc." {
		t.Errorf("Name = %q, want first non-empty name", pos.Name)
	}
}

func TestBook_Stats(t *testing.T) {
	ledger := NewLedger(
		NewBuy(MustParseDate("2025-01-10"), "AAPL", Q(10), USD(100)),
		NewBuy(MustParseDate("2025-01-11"), "GOOG", Q(10), USD(100)),
		NewSell(MustParseDate("2025-02-01"), "GOOG", Q(10), USD(110)), // closed
		NewSell(MustParseDate("2025-02-02"), "AAPL", Q(1), USD(90)),
	)
	book, _ := Consolidate(ledger)
	stats := book.Stats()

	if stats.Buys != 2 || stats.Sells != 2 {
		t.Errorf("Buys/Sells = %d/%d, want 2/2", stats.Buys, stats.Sells)
	}
	if stats.OpenPositions != 1 || stats.ClosedPositions != 1 {
		t.Errorf("Open/Closed = %d/%d, want 1/1", stats.OpenPositions, stats.ClosedPositions)
	}
	// GOOG realized +100, AAPL realized -10.
	if !stats.TotalRealizedGain.Equal(USD(90)) {
		t.Errorf("TotalRealizedGain = %s, want $90.00", stats.TotalRealizedGain)
	}
}
