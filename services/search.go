package services

import (
	"context"
	"fmt"
	"log"
)

// FlightResult is the uniform envelope of a flight search. IsEstimated is
// true whenever the offers could not be confirmed against a live provider
// response — validation failure, provider failure, or an empty sequence.
type FlightResult struct {
	Flights     []FlightOffer `json:"flights"`
	IsEstimated bool          `json:"isEstimated"`
	Error       string        `json:"error,omitempty"`
}

// HotelResult is the uniform envelope of a hotel search.
type HotelResult struct {
	Hotels      []HotelOffer `json:"hotels"`
	CityID      *int         `json:"cityId,omitempty"`
	IsEstimated bool         `json:"isEstimated"`
	Error       string       `json:"error,omitempty"`
}

// Searcher is the public entry point of the offer aggregation pipeline:
// validate, resolve (hotels), fetch, normalize, envelope. Each call is an
// independent stateless invocation; nothing is shared across requests.
type Searcher struct {
	flights *FlightsClient
	hotels  *HotelsClient
}

func NewSearcher(flights *FlightsClient, hotels *HotelsClient) *Searcher {
	return &Searcher{flights: flights, hotels: hotels}
}

// SearchFlights runs the flight pipeline. The returned error is non-nil only
// for a *ValidationError; provider failures are absorbed into the envelope so
// the caller always gets a well-formed result.
func (s *Searcher) SearchFlights(ctx context.Context, q FlightQuery) (FlightResult, error) {
	if verr := q.Validate(); verr != nil {
		return FlightResult{Flights: []FlightOffer{}, IsEstimated: true, Error: verr.Error()}, verr
	}

	raw, currency, err := s.flights.FetchOffers(ctx, q)
	if err != nil {
		log.Printf("⚠️  flight search %s→%s degraded: %v", q.Origin, q.Destination, err)
		return FlightResult{Flights: []FlightOffer{}, IsEstimated: true, Error: err.Error()}, nil
	}

	offers := make([]FlightOffer, 0, len(raw))
	for _, r := range raw {
		offers = append(offers, normalizeFlightOffer(r, q, currency))
	}

	// Provider order is preserved; an empty sequence is still reported as
	// estimated so the UI can flag uncertain data.
	return FlightResult{Flights: offers, IsEstimated: len(offers) == 0}, nil
}

// SearchHotels runs the hotel pipeline: the location must resolve before any
// price query can be made. An unresolved destination is an expected terminal
// state, not an error.
func (s *Searcher) SearchHotels(ctx context.Context, q HotelQuery) (HotelResult, error) {
	if verr := q.Validate(); verr != nil {
		return HotelResult{Hotels: []HotelOffer{}, IsEstimated: true, Error: verr.Error()}, verr
	}

	locationID, found := s.hotels.ResolveLocation(ctx, q.Destination, q.IATACode)
	if !found {
		return HotelResult{
			Hotels:      []HotelOffer{},
			IsEstimated: true,
			Error:       fmt.Sprintf("no location found for %q", q.Destination),
		}, nil
	}

	raw, err := s.hotels.FetchOffers(ctx, locationID, q)
	if err != nil {
		log.Printf("⚠️  hotel search for %q degraded: %v", q.Destination, err)
		return HotelResult{
			Hotels:      []HotelOffer{},
			CityID:      &locationID,
			IsEstimated: true,
			Error:       err.Error(),
		}, nil
	}

	offers := make([]HotelOffer, 0, len(raw))
	for _, r := range raw {
		offers = append(offers, s.hotels.normalizeHotelOffer(r, q, locationID))
	}

	return HotelResult{
		Hotels:      offers,
		CityID:      &locationID,
		IsEstimated: len(offers) == 0,
	}, nil
}
