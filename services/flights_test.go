package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tripdesk/config"
)

func testFlightQuery() FlightQuery {
	return FlightQuery{
		Origin:      "LIM",
		Destination: "CUN",
		StartDate:   "2025-03-10",
		EndDate:     "2025-03-17",
		Passengers:  2,
	}
}

func flightsClientFor(url string) *FlightsClient {
	return NewFlightsClient(config.Config{FlightAPIBase: url, ProviderToken: "test-token"})
}

func TestFlightsClientFetchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("origin") != "LIM" || q.Get("destination") != "CUN" {
			t.Errorf("unexpected route %s->%s", q.Get("origin"), q.Get("destination"))
		}
		if q.Get("token") != "test-token" {
			t.Errorf("token = %q, want test-token", q.Get("token"))
		}
		if q.Get("return_at") != "2025-03-17" {
			t.Errorf("return_at = %q", q.Get("return_at"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"currency":"usd","data":[
			{"origin":"LIM","destination":"CUN","departure_at":"2025-03-10T09:30:00Z",
			 "airline":"LA","flight_number":"2406","price":412.5,"transfers":1,
			 "duration":465,"link":"/search/LIM1003CUN17032"}
		]}`))
	}))
	defer srv.Close()

	raw, currency, err := flightsClientFor(srv.URL).FetchOffers(context.Background(), testFlightQuery())
	if err != nil {
		t.Fatalf("FetchOffers() error = %v", err)
	}
	if currency != "usd" {
		t.Errorf("currency = %q, want usd", currency)
	}
	if len(raw) != 1 {
		t.Fatalf("got %d offers, want 1", len(raw))
	}
	if raw[0].Airline != "LA" || raw[0].Price != 412.5 {
		t.Errorf("unexpected offer %+v", raw[0])
	}
}

func TestFlightsClientFetchOffersFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream exploded", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"data":[{`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, _, err := flightsClientFor(srv.URL).FetchOffers(context.Background(), testFlightQuery())
			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("FetchOffers() error = %v, want *ProviderError", err)
			}
		})
	}
}

func TestNormalizeFlightOfferFallbacks(t *testing.T) {
	q := testFlightQuery()

	offer := normalizeFlightOffer(rawFlightOffer{Price: -3}, q, "")

	if offer.Airline != "Unknown" {
		t.Errorf("Airline = %q, want Unknown", offer.Airline)
	}
	if offer.Origin != "LIM" || offer.Destination != "CUN" {
		t.Errorf("route = %s->%s, want request params", offer.Origin, offer.Destination)
	}
	if offer.Price != 0 {
		t.Errorf("Price = %v, want 0", offer.Price)
	}
	if offer.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", offer.Currency)
	}
	if offer.DepartureTime != nil || offer.ArrivalTime != nil {
		t.Error("timestamps should be nil when the provider omits them")
	}
	if !strings.Contains(offer.Link, "origin_iata=LIM") || !strings.Contains(offer.Link, "depart_date=2025-03-10") {
		t.Errorf("synthesized link = %q", offer.Link)
	}
}

func TestNormalizeFlightOfferProviderLink(t *testing.T) {
	offer := normalizeFlightOffer(rawFlightOffer{Link: "/search/LIM1003CUN"}, testFlightQuery(), "usd")
	if !strings.HasPrefix(offer.Link, "https://www.aviasales.com/search/") {
		t.Errorf("Link = %q, want provider link made absolute", offer.Link)
	}
}

func TestFlightOfferIDDeterministic(t *testing.T) {
	raw := rawFlightOffer{Airline: "LA", FlightNumber: "2406", DepartureAt: "2025-03-10T09:30:00Z"}
	q := testFlightQuery()

	a := normalizeFlightOffer(raw, q, "usd")
	b := normalizeFlightOffer(raw, q, "usd")
	if a.ID == "" || a.ID != b.ID {
		t.Errorf("ids %q vs %q, want equal and non-empty", a.ID, b.ID)
	}
}
