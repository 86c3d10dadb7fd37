// Package yahoo fetches market data from the Yahoo Finance public endpoints
// and exposes it as restock quotes.
//
// The provider combines two endpoints: the v8 chart endpoint for the current
// price and previous close, and the v10 quoteSummary endpoint for the company
// profile (sector, industry) and dividend data. Profile data is best effort:
// when the summary endpoint fails, the quote is still returned with price
// data only.
package yahoo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ellenvlimanauw-eng/restock"
)

// ErrNoQuote is returned when Yahoo has no data for a symbol. It is final:
// retrying cannot help, so the provider fails fast on it.
var ErrNoQuote = errors.New("yahoo: no result for symbol")

const (
	defaultChartURL   = "https://query2.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d"
	defaultSummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=summaryProfile,summaryDetail,price"
)

// Provider fetches quotes from Yahoo Finance. It implements
// restock.QuoteProvider.
//
// Quotes are cached in memory for the configured TTL, and transient fetch
// failures are retried a few times before giving up.
type Provider struct {
	client     *http.Client
	chartURL   string // format string taking the symbol
	summaryURL string // format string taking the symbol
	ttl        time.Duration
	retries    int
	retryDelay time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	quote   restock.Quote
	fetched time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithClient substitutes the HTTP client, mostly for tests.
func WithClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// WithBaseURL redirects both endpoints to another host, keeping the Yahoo
// URL paths. Used by tests to point the provider at a local server.
func WithBaseURL(base string) Option {
	return func(p *Provider) {
		p.chartURL = base + "/v8/finance/chart/%s"
		p.summaryURL = base + "/v10/finance/quoteSummary/%s"
	}
}

// WithTTL sets how long a fetched quote is served from memory.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithRetry sets the number of fetch attempts and the pause between them.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Provider) { p.retries, p.retryDelay = attempts, delay }
}

// NewProvider returns a Provider with a daily disk cache on the transport and
// sensible defaults: 60s in-memory TTL, 3 attempts, 2s between attempts.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		client:     dailyClient(),
		chartURL:   defaultChartURL,
		summaryURL: defaultSummaryURL,
		ttl:        60 * time.Second,
		retries:    3,
		retryDelay: 2 * time.Second,
		cache:      make(map[string]cachedQuote),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Quote fetches the latest quote for a symbol.
func (p *Provider) Quote(symbol string) (restock.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return restock.Quote{}, ErrNoQuote
	}

	p.mu.RLock()
	if c, ok := p.cache[symbol]; ok && time.Since(c.fetched) < p.ttl {
		p.mu.RUnlock()
		return c.quote, nil
	}
	p.mu.RUnlock()

	quote, err := p.fetch(symbol)
	if err != nil {
		return restock.Quote{}, err
	}

	p.mu.Lock()
	p.cache[symbol] = cachedQuote{quote: quote, fetched: time.Now()}
	p.mu.Unlock()
	return quote, nil
}

// fetch retrieves and assembles a quote, retrying transient failures.
func (p *Provider) fetch(symbol string) (restock.Quote, error) {
	var quote restock.Quote
	var err error
	// At least one attempt runs even with a non-positive retry count,
	// otherwise the loop would hand back a zero quote with a nil error.
	attempts := max(p.retries, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(p.retryDelay)
		}
		quote, err = p.fetchChart(symbol)
		if err == nil {
			break
		}
		if errors.Is(err, ErrNoQuote) {
			return restock.Quote{}, err
		}
	}
	if err != nil {
		return restock.Quote{}, fmt.Errorf("fetching %s: %w", symbol, err)
	}

	// Profile and dividend data enrich the quote but never fail it.
	p.fetchSummary(symbol, &quote)
	return quote, nil
}

// chartResponse is the part of the v8 chart payload the provider reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (p *Provider) fetchChart(symbol string) (restock.Quote, error) {
	var raw chartResponse
	if err := jwget(p.client, fmt.Sprintf(p.chartURL, symbol), &raw); err != nil {
		return restock.Quote{}, err
	}
	if len(raw.Chart.Result) == 0 {
		return restock.Quote{}, ErrNoQuote
	}

	r := raw.Chart.Result[0]
	price := r.Meta.RegularMarketPrice

	// Fallback: last nonzero close when the meta price is missing.
	if price <= 0 && len(r.Indicators.Quote) > 0 {
		closes := r.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] > 0 {
				price = closes[i]
				break
			}
		}
	}
	if price <= 0 {
		return restock.Quote{}, ErrNoQuote
	}

	previous := r.Meta.PreviousClose
	if previous <= 0 {
		previous = r.Meta.ChartPreviousClose
	}
	currency := r.Meta.Currency
	if currency == "" {
		currency = "USD"
	}

	return restock.Quote{
		Price:         restock.M(price, currency),
		PreviousClose: restock.M(previous, currency),
	}, nil
}

// fetchSummary fills in name, sector, industry and the annual dividend from
// the quoteSummary endpoint. The payload nests every number in raw/fmt
// wrappers, so it is navigated with jsonpath instead of a typed struct.
func (p *Provider) fetchSummary(symbol string, quote *restock.Quote) {
	var jobj any
	if err := jwget(p.client, fmt.Sprintf(p.summaryURL, symbol), &jobj); err != nil {
		return
	}

	if name, err := jstring(jobj, "$.quoteSummary.result[0].price.longName"); err == nil {
		quote.Name = name
	}
	if sector, err := jstring(jobj, "$.quoteSummary.result[0].summaryProfile.sector"); err == nil {
		quote.Sector = sector
	}
	if industry, err := jstring(jobj, "$.quoteSummary.result[0].summaryProfile.industry"); err == nil {
		quote.Industry = industry
	}
	if rate, err := jfloat(jobj, "$.quoteSummary.result[0].summaryDetail.dividendRate.raw"); err == nil && rate > 0 {
		quote.AnnualDividend = restock.M(rate, quote.Price.Currency())
	}
}

// jstring evaluates a jsonpath expression expecting a string result.
func jstring(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", err
	}
	jval = unwrap(jval)
	s, ok := jval.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%q: not a string: %v", path, jval)
	}
	return s, nil
}

// jfloat evaluates a jsonpath expression expecting a float result.
func jfloat(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, err
	}
	jval = unwrap(jval)
	v, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("%q: not a float: %v", path, jval)
	}
	return v, nil
}

// jsonpath is never clear about whether it returns a list of one answer or a
// single answer; unwrap keeps the first one if any.
func unwrap(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

var _ restock.QuoteProvider = (*Provider)(nil)
