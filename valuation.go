package restock

import "sync"

// Quote is the externally supplied market data for one security. The engine
// never fetches quotes itself; collaborators (package yahoo, tests) build the
// per-symbol quote map and hand it to Valuate.
type Quote struct {
	Name           string // company long name
	Sector         string // e.g. "Technology", empty when unknown
	Industry       string
	Price          Money // current price per share
	PreviousClose  Money // previous session close, for day change
	AnnualDividend Money // annual dividend per share, zero when none
}

// QuoteProvider returns the latest quote for a symbol.
//
// A missing quote is a recoverable condition: the position is still reported
// with its realized and held data, and is merely excluded from the
// price-dependent aggregates. Retry and timeout policy belongs to the
// provider implementation, not to the valuation step.
type QuoteProvider interface {
	Quote(symbol string) (Quote, error)
}

// FetchQuotes fetches quotes for all symbols concurrently, one fetch per
// symbol. It always returns the completed (possibly partial) quote map along
// with the per-symbol fetch errors.
func FetchQuotes(provider QuoteProvider, symbols []string) (map[string]Quote, map[string]error) {
	quotes := make(map[string]Quote, len(symbols))
	failures := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quote, err := provider.Quote(symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[symbol] = err
				return
			}
			quotes[symbol] = quote
		}()
	}
	wg.Wait()
	return quotes, failures
}

// ValuedPosition is a Position annotated with market data.
//
// Quoted tells whether market data was available: when false only the
// held/realized fields and the security identity are meaningful, and the
// position takes no part in allocation normalization.
type ValuedPosition struct {
	Position

	Quoted bool
	Quote  Quote

	MarketValue    Money   // Quantity × current price
	UnrealizedGain Money   // MarketValue − cost basis of held shares
	UnrealizedPct  Percent // UnrealizedGain over cost basis
	TotalGain      Money   // realized + unrealized
	DayChange      Money   // Quantity × (price − previous close)
	DayChangePct   Percent
	AnnualIncome   Money   // Quantity × annual dividend per share
	DividendYield  Percent // annual dividend over current price
	Allocation     Percent // MarketValue over the portfolio's total market value
}
