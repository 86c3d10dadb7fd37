package restock

import (
	"iter"
	"maps"
	"slices"
)

// Position is the consolidated state of a single security: the quantity
// currently held, the total cost of those shares, and the gain realized by
// past sales.
//
// A position is created implicitly by the first transaction referencing its
// security and is never deleted: a fully liquidated position remains with a
// zero quantity, a zero cost basis, and its realized gain retained.
type Position struct {
	Security     string
	Name         string   // company name, first non-empty one seen in the ledger
	Quantity     Quantity // number of shares currently held, never negative
	RealizedGain Money    // cumulative gain locked in by sells

	cost  Money // total cost of the shares currently held
	buys  int
	sells int
}

// AvgCost returns the weighted-average cost per share of the currently held
// shares. It is always derived from the running cost/quantity pair so that
// repeated buys cannot accumulate rounding drift. A position with no shares
// has no meaningful basis and reports zero.
func (p *Position) AvgCost() Money {
	if !p.Quantity.IsPositive() {
		return M(0, p.cost.cur)
	}
	return p.cost.Div(p.Quantity)
}

// CostBasis returns the total cost of the currently held shares.
func (p *Position) CostBasis() Money { return p.cost }

// Open reports whether any shares are currently held.
func (p *Position) Open() bool { return p.Quantity.IsPositive() }

// Closed reports whether the position was fully liquidated with a realized
// gain or loss on record.
func (p *Position) Closed() bool { return p.Quantity.IsZero() && !p.RealizedGain.IsZero() }

// buy folds a purchase of quantity q at price per share. The new average
// derives from the pre-update totals, so the cost contribution of existing
// shares is preserved exactly.
func (p *Position) buy(q Quantity, price Money) {
	p.cost = p.cost.Add(price.Mul(q))
	p.Quantity = p.Quantity.Add(q)
	p.buys++
}

// sell folds a sale of quantity q at price per share. Selling never changes
// the cost basis per share of the remaining position, only buys do.
func (p *Position) sell(q Quantity, price Money) *OverrollError {
	if !q.IsPositive() || q.GreaterThan(p.Quantity) {
		return &OverrollError{Security: p.Security, Requested: q, Held: p.Quantity}
	}
	costOfSale := p.cost.Mul(q).Div(p.Quantity)
	proceeds := price.Mul(q)
	p.RealizedGain = p.RealizedGain.Add(proceeds.Sub(costOfSale))
	p.Quantity = p.Quantity.Sub(q)
	if p.Quantity.IsZero() {
		// no shares, no basis; also clears any division dust.
		p.cost = M(0, p.cost.cur)
	} else {
		p.cost = p.cost.Sub(costOfSale)
	}
	p.sells++
	return nil
}

// Book is the result of consolidating a ledger: one Position per security.
type Book struct {
	positions  map[string]*Position
	overrolled map[string]*OverrollError
}

// Consolidate folds the ledger into one Position per security.
//
// It is a pure function of its input: no I/O, no retained state, identical
// ledgers produce identical books. Transactions are folded in ledger order
// (chronological, stable for same-day records). An oversell stops the
// consolidation of that security at the offending transaction and is returned
// as a *OverrollError; all other securities are processed normally.
func Consolidate(ledger *Ledger) (*Book, []error) {
	book := &Book{
		positions:  make(map[string]*Position),
		overrolled: make(map[string]*OverrollError),
	}
	var issues []error

	for _, tx := range ledger.Transactions() {
		if _, broken := book.overrolled[tx.Security]; broken {
			continue
		}
		pos, ok := book.positions[tx.Security]
		if !ok {
			pos = &Position{Security: tx.Security}
			book.positions[tx.Security] = pos
		}
		if pos.Name == "" && tx.Name != "" {
			pos.Name = tx.Name
		}

		switch tx.Action {
		case Buy:
			pos.buy(tx.Quantity, tx.Price)
		case Sell:
			if err := pos.sell(tx.Quantity, tx.Price); err != nil {
				err.Date = tx.Date
				book.overrolled[tx.Security] = err
				issues = append(issues, err)
			}
		}
	}
	return book, issues
}

// Position returns the consolidated position for a ticker.
func (b *Book) Position(ticker string) (*Position, bool) {
	p, ok := b.positions[NormalizeSymbol(ticker)]
	return p, ok
}

// Positions iterates over all positions in lexical ticker order.
func (b *Book) Positions() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		tickers := slices.Collect(maps.Keys(b.positions))
		slices.Sort(tickers)
		for _, ticker := range tickers {
			if !yield(b.positions[ticker]) {
				return
			}
		}
	}
}

// Active iterates over positions that currently hold shares, in lexical
// ticker order.
func (b *Book) Active() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for p := range b.Positions() {
			if !p.Open() {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Overrolled returns the oversell error that stopped the consolidation of a
// ticker, if any.
func (b *Book) Overrolled(ticker string) (*OverrollError, bool) {
	err, ok := b.overrolled[NormalizeSymbol(ticker)]
	return err, ok
}

// Stats summarizes the consolidation of a whole ledger.
type Stats struct {
	Buys              int // total number of buy transactions folded
	Sells             int // total number of sell transactions folded
	OpenPositions     int
	ClosedPositions   int // fully liquidated with a realized gain on record
	TotalRealizedGain Money
}

// Stats computes overall statistics for the book.
func (b *Book) Stats() Stats {
	var s Stats
	for p := range b.Positions() {
		s.Buys += p.buys
		s.Sells += p.sells
		if p.Open() {
			s.OpenPositions++
		} else if p.Closed() {
			s.ClosedPositions++
		}
		s.TotalRealizedGain = s.TotalRealizedGain.Add(p.RealizedGain)
	}
	return s
}
