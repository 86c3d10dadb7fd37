package restock

import (
	"maps"
	"slices"
	"sort"
)

// SectorAllocation aggregates the open, quoted positions of one sector.
type SectorAllocation struct {
	Sector      string
	Tickers     []string
	MarketValue Money
	CostBasis   Money
	Gain        Money   // unrealized gain of the sector's positions
	GainPct     Percent // Gain over CostBasis
	Allocation  Percent // MarketValue over the portfolio's total market value
}

// Report is the valued view of a whole book on a given day.
//
// It covers every security that holds shares or carries a nonzero realized
// gain: closed positions are still reported for their historical profit and
// loss, with a zero market value.
type Report struct {
	Date     Date
	Currency string

	Positions []ValuedPosition // lexical ticker order
	Missing   []string         // open tickers reported without market data

	TotalMarketValue    Money
	TotalCostBasis      Money
	TotalUnrealizedGain Money
	TotalUnrealizedPct  Percent
	TotalRealizedGain   Money
	TotalGain           Money // realized + unrealized
	TotalDayChange      Money
	TotalAnnualIncome   Money
	PortfolioYield      Percent // TotalAnnualIncome over TotalMarketValue

	Sectors []SectorAllocation // sorted by descending allocation

	Best  *ValuedPosition // best unrealized performer, nil when none quoted
	Worst *ValuedPosition // worst unrealized performer, nil when none quoted
}

// Valuate annotates every reportable position of the book with the externally
// supplied quotes and computes the portfolio-level aggregates.
//
// Securities without a quote stay in the report with their held and realized
// data, are listed in Missing, and are excluded from the price-dependent
// totals and from allocation normalization. A quote in a currency other than
// the position's cost basis is treated the same way: no conversion takes
// place, so it cannot value the position. Over the quoted open positions,
// allocations sum to 100% within rounding tolerance.
func Valuate(book *Book, quotes map[string]Quote, on Date, currency string) *Report {
	report := &Report{Date: on, Currency: currency}

	for pos := range book.Positions() {
		if !pos.Open() && pos.RealizedGain.IsZero() {
			continue // never meaningfully held, nothing to report
		}

		vp := ValuedPosition{Position: *pos}
		quote, ok := quotes[pos.Security]
		if ok && !quote.Price.SameCurrency(pos.CostBasis()) {
			// a foreign-currency quote cannot value this position: treat the
			// quote as unavailable rather than poisoning the report.
			ok = false
		}
		if ok && pos.Open() {
			vp.Quoted = true
			vp.Quote = quote
			if vp.Name == "" {
				vp.Name = quote.Name
			}
			vp.MarketValue = quote.Price.Mul(pos.Quantity)
			vp.UnrealizedGain = vp.MarketValue.Sub(pos.CostBasis())
			vp.UnrealizedPct = vp.UnrealizedGain.PercentOf(pos.CostBasis())
			vp.DayChange = quote.Price.Sub(quote.PreviousClose).Mul(pos.Quantity)
			vp.DayChangePct = quote.Price.Sub(quote.PreviousClose).PercentOf(quote.PreviousClose)
			vp.AnnualIncome = quote.AnnualDividend.Mul(pos.Quantity)
			vp.DividendYield = quote.AnnualDividend.PercentOf(quote.Price)

			report.TotalMarketValue = report.TotalMarketValue.Add(vp.MarketValue)
			report.TotalCostBasis = report.TotalCostBasis.Add(pos.CostBasis())
			report.TotalUnrealizedGain = report.TotalUnrealizedGain.Add(vp.UnrealizedGain)
			report.TotalDayChange = report.TotalDayChange.Add(vp.DayChange)
			report.TotalAnnualIncome = report.TotalAnnualIncome.Add(vp.AnnualIncome)
		} else if pos.Open() {
			report.Missing = append(report.Missing, pos.Security)
		}
		vp.TotalGain = vp.UnrealizedGain.Add(pos.RealizedGain)
		report.TotalRealizedGain = report.TotalRealizedGain.Add(pos.RealizedGain)
		report.Positions = append(report.Positions, vp)
	}

	// Allocation requires the full set: a second pass normalizes against the
	// total market value of the quoted open positions.
	for i := range report.Positions {
		vp := &report.Positions[i]
		if !vp.Quoted {
			continue
		}
		vp.Allocation = vp.MarketValue.PercentOf(report.TotalMarketValue)
		if report.Best == nil || vp.UnrealizedPct > report.Best.UnrealizedPct {
			report.Best = vp
		}
		if report.Worst == nil || vp.UnrealizedPct < report.Worst.UnrealizedPct {
			report.Worst = vp
		}
	}

	report.TotalUnrealizedPct = report.TotalUnrealizedGain.PercentOf(report.TotalCostBasis)
	report.TotalGain = report.TotalUnrealizedGain.Add(report.TotalRealizedGain)
	report.PortfolioYield = report.TotalAnnualIncome.PercentOf(report.TotalMarketValue)
	report.Sectors = sectorAllocations(report)
	return report
}

// sectorAllocations groups the quoted open positions by sector.
func sectorAllocations(report *Report) []SectorAllocation {
	bySector := make(map[string]*SectorAllocation)
	for _, vp := range report.Positions {
		if !vp.Quoted {
			continue
		}
		sector := vp.Quote.Sector
		if sector == "" {
			sector = "Unknown"
		}
		sa, ok := bySector[sector]
		if !ok {
			sa = &SectorAllocation{Sector: sector}
			bySector[sector] = sa
		}
		sa.Tickers = append(sa.Tickers, vp.Security)
		sa.MarketValue = sa.MarketValue.Add(vp.MarketValue)
		sa.CostBasis = sa.CostBasis.Add(vp.CostBasis())
		sa.Gain = sa.Gain.Add(vp.UnrealizedGain)
	}

	sectors := make([]SectorAllocation, 0, len(bySector))
	for _, name := range slices.Sorted(maps.Keys(bySector)) {
		sa := bySector[name]
		sa.Allocation = sa.MarketValue.PercentOf(report.TotalMarketValue)
		sa.GainPct = sa.Gain.PercentOf(sa.CostBasis)
		sectors = append(sectors, *sa)
	}
	sort.SliceStable(sectors, func(i, j int) bool {
		return sectors[i].Allocation > sectors[j].Allocation
	})
	return sectors
}
