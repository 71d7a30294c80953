package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripdesk/config"

	"github.com/google/uuid"
)

// ProviderError marks an upstream transport or HTTP failure, as opposed to a
// successful response with zero offers.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FlightOffer is the canonical flight option returned to the frontend.
type FlightOffer struct {
	ID            string  `json:"id"`
	Airline       string  `json:"airline"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime *string `json:"departureTime"`
	ArrivalTime   *string `json:"arrivalTime"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Link          string  `json:"link"`
	Stops         *int    `json:"stops"`
	Duration      *int    `json:"duration"`
}

// FlightsClient queries the flight-prices API. One HTTP call per search, no
// retries; a timeout is treated like any other provider failure.
type FlightsClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewFlightsClient(cfg config.Config) *FlightsClient {
	return &FlightsClient{
		baseURL: strings.TrimRight(cfg.FlightAPIBase, "/"),
		token:   cfg.ProviderToken,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type rawFlightOffer struct {
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	DepartureAt  string  `json:"departure_at"`
	ReturnAt     string  `json:"return_at"`
	Airline      string  `json:"airline"`
	FlightNumber string  `json:"flight_number"`
	Price        float64 `json:"price"`
	Transfers    *int    `json:"transfers"`
	Duration     *int    `json:"duration"`
	Link         string  `json:"link"`
}

type flightPricesResponse struct {
	Success  bool             `json:"success"`
	Currency string           `json:"currency"`
	Data     []rawFlightOffer `json:"data"`
}

// FetchOffers runs the prices-for-dates query. An empty slice with a nil
// error means the provider answered and genuinely has nothing.
func (c *FlightsClient) FetchOffers(ctx context.Context, q FlightQuery) ([]rawFlightOffer, string, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("departure_at", q.StartDate)
	if q.EndDate != "" {
		params.Set("return_at", q.EndDate)
	} else {
		params.Set("one_way", "true")
	}
	params.Set("currency", "usd")
	params.Set("limit", "20")
	params.Set("sorting", "price")
	params.Set("token", c.token)

	reqURL := c.baseURL + "/aviasales/v3/prices_for_dates?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", &ProviderError{Provider: "flights", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &ProviderError{Provider: "flights", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &ProviderError{
			Provider: "flights",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed flightPricesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", &ProviderError{Provider: "flights", Err: fmt.Errorf("bad response body: %w", err)}
	}

	return parsed.Data, parsed.Currency, nil
}

// normalizeFlightOffer maps one provider row into the canonical model. Every
// field has a deterministic fallback so normalization never fails and two
// identical raw offers always produce the same output.
func normalizeFlightOffer(raw rawFlightOffer, q FlightQuery, currency string) FlightOffer {
	offer := FlightOffer{
		ID:          flightOfferID(raw, q),
		Airline:     raw.Airline,
		Origin:      raw.Origin,
		Destination: raw.Destination,
		Price:       raw.Price,
		Currency:    strings.ToUpper(currency),
		Link:        raw.Link,
		Stops:       raw.Transfers,
		Duration:    raw.Duration,
	}

	if offer.Airline == "" {
		offer.Airline = "Unknown"
	}
	if offer.Origin == "" {
		offer.Origin = q.Origin
	}
	if offer.Destination == "" {
		offer.Destination = q.Destination
	}
	if offer.Price < 0 {
		offer.Price = 0
	}
	if offer.Currency == "" {
		offer.Currency = "USD"
	}

	if raw.DepartureAt != "" {
		dep := raw.DepartureAt
		offer.DepartureTime = &dep
	}
	if raw.ReturnAt != "" {
		arr := raw.ReturnAt
		offer.ArrivalTime = &arr
	}

	if offer.Link == "" {
		offer.Link = flightSearchLink(q)
	} else if strings.HasPrefix(offer.Link, "/") {
		offer.Link = "https://www.aviasales.com" + offer.Link
	}

	return offer
}

// flightOfferID derives a stable id for rows the provider ships without one.
// A name-based UUID keeps the envelope byte-identical across repeated
// searches over the same provider data.
func flightOfferID(raw rawFlightOffer, q FlightQuery) string {
	key := strings.Join([]string{
		q.Origin, q.Destination,
		raw.Airline, raw.FlightNumber, raw.DepartureAt,
	}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// flightSearchLink synthesizes a deep link when the provider row has none.
func flightSearchLink(q FlightQuery) string {
	params := url.Values{}
	params.Set("origin_iata", q.Origin)
	params.Set("destination_iata", q.Destination)
	params.Set("depart_date", q.StartDate)
	if q.EndDate != "" {
		params.Set("return_date", q.EndDate)
	}
	params.Set("adults", fmt.Sprintf("%d", q.Passengers))
	return "https://www.aviasales.com/search?" + params.Encode()
}
