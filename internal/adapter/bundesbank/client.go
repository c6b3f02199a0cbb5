// Package bundesbank provides a client for the Bundesbank SDMX REST API,
// used to look up daily EUR reference exchange rates.
package bundesbank

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Rate is one observed EUR reference rate
type Rate struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"rate"`
	Date     time.Time       `json:"date"`
}

// Client fetches exchange-rate series from the Bundesbank API
type Client struct {
	baseURL    string
	flow       string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new Bundesbank API client. flow is the SDMX dataflow
// carrying the daily series, normally BBEX3.
func NewClient(baseURL, flow string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		flow:       flow,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With().Str("component", "bundesbank").Logger(),
	}
}

// seriesKey builds the SDMX key of the daily EUR reference-rate series for
// a currency, e.g. D.USD.EUR.BB.AC.000.
func (c *Client) seriesKey(currency string) string {
	return fmt.Sprintf("D.%s.EUR.BB.AC.000", strings.ToUpper(currency))
}

// FetchLatestRate retrieves the most recent observation of the EUR
// reference rate for the given currency.
func (c *Client) FetchLatestRate(ctx context.Context, currency string) (Rate, error) {
	url := fmt.Sprintf("%s/data/%s/%s?format=csv&lang=en&lastNObservations=1",
		c.baseURL, c.flow, c.seriesKey(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Rate{}, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Rate{}, fmt.Errorf("fetching rate for %s: %w", currency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rate{}, fmt.Errorf("reading rate response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Rate{}, fmt.Errorf("rate API returned status %d for %s", resp.StatusCode, currency)
	}

	rate, err := parseLatestObservation(string(body), currency)
	if err != nil {
		return Rate{}, err
	}

	c.log.Debug().
		Str("currency", currency).
		Str("rate", rate.Value.String()).
		Str("date", rate.Date.Format("2006-01-02")).
		Msg("Fetched reference rate")

	return rate, nil
}

// parseLatestObservation picks the last parseable observation row out of
// the CSV payload. Observation rows start with an ISO date followed by the
// rate value; header and metadata rows are skipped.
func parseLatestObservation(body, currency string) (Rate, error) {
	var latest Rate
	found := false

	for _, line := range strings.Split(body, "\n") {
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) < 2 {
			continue
		}

		date, err := time.Parse("2006-01-02", strings.Trim(fields[0], `"`))
		if err != nil {
			continue
		}
		value, err := decimal.NewFromString(strings.Trim(fields[1], `"`))
		if err != nil {
			// Non-trading days carry an empty value
			continue
		}

		if !found || date.After(latest.Date) {
			latest = Rate{Currency: strings.ToUpper(currency), Value: value, Date: date}
			found = true
		}
	}

	if !found {
		return Rate{}, fmt.Errorf("no observation found for %s", currency)
	}
	return latest, nil
}
