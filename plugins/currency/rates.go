package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Songmu/flextime"
	"github.com/va6996/amadeus-mcp/log"
)

// DefaultRatesURL returns USD-based rates in the {"rates": {"EUR": 0.92, ...}} shape.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

// DefaultRefreshInterval is the minimum age before the table is fetched again.
const DefaultRefreshInterval = 24 * time.Hour

// DefaultRates is used until the first successful refresh.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"EUR": 1.10,
		"GBP": 1.27,
		"JPY": 0.0071,
		"IDR": 0.000063,
		"USD": 1.0,
	}
}

// Clock returns the current time. It enables deterministic tests.
type Clock func() time.Time

// RateTable maps currency code to USD per unit. The map behind it is never
// mutated; Replace swaps in a new one.
type RateTable struct {
	rates atomic.Pointer[map[string]float64]
}

// NewRateTable creates a table seeded with initial, or DefaultRates when nil.
func NewRateTable(initial map[string]float64) *RateTable {
	if initial == nil {
		initial = DefaultRates()
	}
	t := &RateTable{}
	t.Replace(initial)
	return t
}

// Rate returns the USD rate for code.
func (t *RateTable) Rate(code string) (float64, bool) {
	rates := *t.rates.Load()
	rate, ok := rates[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

// ToUSD converts amount using the table, treating unknown codes as 1.0.
func (t *RateTable) ToUSD(amount float64, code string) float64 {
	rate, ok := t.Rate(code)
	if !ok {
		rate = 1.0
	}
	return amount * rate
}

// Snapshot returns a copy of the current table.
func (t *RateTable) Snapshot() map[string]float64 {
	rates := *t.rates.Load()
	out := make(map[string]float64, len(rates))
	for k, v := range rates {
		out[k] = v
	}
	return out
}

// Replace installs a copy of rates as the current table.
func (t *RateTable) Replace(rates map[string]float64) {
	next := make(map[string]float64, len(rates))
	for k, v := range rates {
		next[k] = v
	}
	t.rates.Store(&next)
}

// RefreshError reports a failed rate fetch. Callers log it; the table keeps
// its previous values.
type RefreshError struct {
	URL string
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("exchange rate refresh from %s failed: %v", e.URL, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Updater refreshes a RateTable from a USD-based rates endpoint.
type Updater struct {
	Table      *RateTable
	URL        string
	Interval   time.Duration
	HTTPClient *http.Client
	Now        Clock

	// unix nanos of the last successful refresh, zero when never
	lastUpdated atomic.Int64
}

// UpdaterOption customizes an Updater.
type UpdaterOption func(*Updater)

// WithClock overrides the time source.
func WithClock(now Clock) UpdaterOption {
	return func(u *Updater) { u.Now = now }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) UpdaterOption {
	return func(u *Updater) { u.HTTPClient = c }
}

// WithInterval overrides the refresh interval.
func WithInterval(d time.Duration) UpdaterOption {
	return func(u *Updater) {
		if d > 0 {
			u.Interval = d
		}
	}
}

// NewUpdater creates an Updater for table. An empty url means DefaultRatesURL.
func NewUpdater(table *RateTable, url string, opts ...UpdaterOption) *Updater {
	if url == "" {
		url = DefaultRatesURL
	}
	u := &Updater{
		Table:      table,
		URL:        url,
		Interval:   DefaultRefreshInterval,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Now:        flextime.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// LastUpdated returns the time of the last successful refresh.
func (u *Updater) LastUpdated() time.Time {
	ns := u.lastUpdated.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// Stale reports whether the table is due for a refresh.
func (u *Updater) Stale() bool {
	last := u.LastUpdated()
	return last.IsZero() || u.Now().Sub(last) >= u.Interval
}

// RefreshIfStale fetches new rates when the table is older than Interval.
// A non-nil error is always a *RefreshError and leaves the table unchanged.
func (u *Updater) RefreshIfStale(ctx context.Context) error {
	if !u.Stale() {
		return nil
	}

	rates, err := u.fetch(ctx)
	if err != nil {
		return &RefreshError{URL: u.URL, Err: err}
	}

	u.Table.Replace(rates)
	u.lastUpdated.Store(u.Now().UnixNano())
	log.Infof(ctx, "Exchange rates updated (%d currencies)", len(rates))
	return nil
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (u *Updater) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}

	return invertRates(payload.Rates)
}

// invertRates turns USD->X quotes into X->USD rates.
func invertRates(usdTo map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(usdTo)+1)
	for code, quote := range usdTo {
		if quote <= 0 {
			continue
		}
		norm, ok := NormalizeCode(code)
		if !ok {
			continue
		}
		out[norm] = 1 / quote
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("rates table is empty")
	}
	out["USD"] = 1.0
	return out, nil
}
