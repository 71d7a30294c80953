package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tripdesk/config"

	"github.com/google/uuid"
)

// HotelOffer is the canonical hotel option returned to the frontend.
type HotelOffer struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ImageURL         *string  `json:"imageUrl"`
	Address          string   `json:"address,omitempty"`
	Rating           float64  `json:"rating"`
	Stars            int      `json:"stars,omitempty"`
	PropertyType     string   `json:"propertyType,omitempty"`
	PricePerNight    float64  `json:"pricePerNight"`
	PriceTotal       float64  `json:"priceTotal"`
	Tags             []string `json:"tags"`
	BookingLink      string   `json:"bookingLink"`
	DistanceToCenter *float64 `json:"distanceToCenter"`
}

// HotelsClient talks to the hotel provider pair: the city-lookup endpoint and
// the price cache-dump endpoint. Both use the same token; the partner marker
// only appears in synthesized booking links.
type HotelsClient struct {
	baseURL    string
	token      string
	marker     string
	httpClient *http.Client
}

func NewHotelsClient(cfg config.Config) *HotelsClient {
	return &HotelsClient{
		baseURL: strings.TrimRight(cfg.HotelAPIBase, "/"),
		token:   cfg.ProviderToken,
		marker:  cfg.PartnerMarker,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// flexID decodes provider identifiers that arrive as either JSON numbers or
// JSON strings, another documented quirk of the upstream payloads.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

func (f flexID) String() string { return string(f) }

// ─── Location lookup ─────────────────────────────────────────────────────────

type lookupResponse struct {
	Results struct {
		Locations []struct {
			ID       flexID `json:"id"`
			CityName string `json:"cityName"`
		} `json:"locations"`
	} `json:"results"`
}

// ResolveLocation maps a free-text destination to the provider's location id.
// The IATA hint is tried first when present, then the free text. Not finding
// a location is a valid outcome, not an error; lookup failures are logged and
// treated the same way.
func (c *HotelsClient) ResolveLocation(ctx context.Context, destination, iataHint string) (int, bool) {
	if iataHint != "" {
		if id, ok := c.lookupCity(ctx, iataHint); ok {
			return id, true
		}
	}
	return c.lookupCity(ctx, destination)
}

func (c *HotelsClient) lookupCity(ctx context.Context, query string) (int, bool) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("lang", "en")
	params.Set("lookFor", "city")
	params.Set("limit", "1")
	params.Set("token", c.token)

	reqURL := c.baseURL + "/api/v2/lookup.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("⚠️  city lookup for %q failed: %v", query, err)
		return 0, false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("⚠️  city lookup for %q returned status %d", query, resp.StatusCode)
		return 0, false
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("⚠️  city lookup for %q returned a bad body: %v", query, err)
		return 0, false
	}
	if len(parsed.Results.Locations) == 0 {
		return 0, false
	}

	// First match wins; the provider already ranks results.
	id, err := strconv.Atoi(parsed.Results.Locations[0].ID.String())
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ─── Offer fetch ─────────────────────────────────────────────────────────────

type rawHotelOffer struct {
	HotelID      flexID   `json:"hotelId"`
	ID           flexID   `json:"id"`
	Name         string   `json:"hotelName"`
	AltName      string   `json:"name"`
	Address      string   `json:"address"`
	Stars        int      `json:"stars"`
	Rating       float64  `json:"rating"`
	PropertyType string   `json:"propertyType"`
	PriceFrom    float64  `json:"priceFrom"`
	PriceAvg     float64  `json:"priceAvg"`
	Distance     *float64 `json:"distance"`
	Photos       []struct {
		URL string `json:"url"`
	} `json:"photos"`
	Photo     string   `json:"photo"`
	Amenities []string `json:"amenities"`
	WiFi      bool     `json:"wifi"`
	Breakfast bool     `json:"breakfast"`
}

// FetchOffers queries the price cache dump for one resolved location.
func (c *HotelsClient) FetchOffers(ctx context.Context, locationID int, q HotelQuery) ([]rawHotelOffer, error) {
	params := url.Values{}
	params.Set("locationId", fmt.Sprintf("%d", locationID))
	params.Set("checkIn", q.CheckIn)
	params.Set("checkOut", q.CheckOut)
	params.Set("adults", fmt.Sprintf("%d", q.Adults))
	params.Set("currency", q.Currency)
	params.Set("limit", fmt.Sprintf("%d", q.Limit))
	params.Set("token", c.token)

	reqURL := c.baseURL + "/api/v2/cache.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Provider: "hotels", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "hotels", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider: "hotels",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	offers, err := decodeHotelPayload(body)
	if err != nil {
		return nil, &ProviderError{Provider: "hotels", Err: err}
	}
	return offers, nil
}

// decodeHotelPayload accepts both documented top-level shapes of the cache
// endpoint: a bare array, or an object wrapping it in a "hotels" field.
func decodeHotelPayload(body []byte) ([]rawHotelOffer, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var offers []rawHotelOffer
		if err := json.Unmarshal(body, &offers); err != nil {
			return nil, fmt.Errorf("bad response body: %w", err)
		}
		return offers, nil
	}

	var wrapped struct {
		Hotels []rawHotelOffer `json:"hotels"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("bad response body: %w", err)
	}
	return wrapped.Hotels, nil
}

// ─── Normalization ───────────────────────────────────────────────────────────

// normalizeHotelOffer maps one provider row into the canonical model. It
// never fails: every field falls back deterministically.
func (c *HotelsClient) normalizeHotelOffer(raw rawHotelOffer, q HotelQuery, locationID int) HotelOffer {
	id := hotelOfferID(raw)
	rating := hotelRating(raw.Rating)
	total := raw.PriceAvg
	if total <= 0 {
		total = raw.PriceFrom
	}
	if total < 0 {
		total = 0
	}

	perNight := 0.0
	if total > 0 {
		perNight = total / float64(q.Nights())
	}

	name := raw.Name
	if name == "" {
		name = raw.AltName
	}
	if name == "" {
		name = "Hotel"
	}

	return HotelOffer{
		ID:               id,
		Name:             name,
		ImageURL:         hotelImageURL(raw),
		Address:          raw.Address,
		Rating:           rating,
		Stars:            raw.Stars,
		PropertyType:     hotelPropertyType(raw),
		PricePerNight:    perNight,
		PriceTotal:       total,
		Tags:             hotelTags(raw, rating),
		BookingLink:      c.bookingLink(locationID, id, q),
		DistanceToCenter: raw.Distance,
	}
}

// hotelOfferID falls back across the two key names the provider uses, then
// derives a stable local id from the row itself.
func hotelOfferID(raw rawHotelOffer) string {
	if s := raw.HotelID.String(); s != "" {
		return s
	}
	if s := raw.ID.String(); s != "" {
		return s
	}
	key := raw.Name + "|" + raw.AltName + "|" + raw.Address
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// hotelImageURL picks the first available image source: the photo list, the
// legacy photo field, then the provider CDN pattern keyed by hotel id.
func hotelImageURL(raw rawHotelOffer) *string {
	if len(raw.Photos) > 0 && raw.Photos[0].URL != "" {
		u := raw.Photos[0].URL
		return &u
	}
	if raw.Photo != "" {
		u := raw.Photo
		return &u
	}
	if id := hotelProviderID(raw); id != "" {
		u := fmt.Sprintf("https://photo.hotellook.com/image_v2/limit/h%s_1/800/520.auto", id)
		return &u
	}
	return nil
}

func hotelProviderID(raw rawHotelOffer) string {
	if s := raw.HotelID.String(); s != "" {
		return s
	}
	return raw.ID.String()
}

// hotelRating reconciles the two scales the provider mixes: a 0-10 score and
// a 0-100 score on the same field.
func hotelRating(r float64) float64 {
	if r > 10 {
		return r / 10
	}
	if r < 0 {
		return 0
	}
	return r
}

func hotelPropertyType(raw rawHotelOffer) string {
	if raw.PropertyType != "" {
		return raw.PropertyType
	}
	if raw.Stars > 0 {
		return fmt.Sprintf("%d estrellas", raw.Stars)
	}
	return ""
}

// hotelTags builds display badges in a fixed order: star count, rating
// quality, WiFi, breakfast. Entries that do not apply are dropped.
func hotelTags(raw rawHotelOffer, rating float64) []string {
	tags := []string{}

	if raw.Stars > 0 {
		tags = append(tags, fmt.Sprintf("%d★", raw.Stars))
	}

	switch {
	case rating >= 8:
		tags = append(tags, "Excelente")
	case rating >= 7:
		tags = append(tags, "Muy bueno")
	}

	if raw.WiFi || hasAmenity(raw.Amenities, "wifi") {
		tags = append(tags, "WiFi gratis")
	}
	if raw.Breakfast || hasAmenity(raw.Amenities, "breakfast") {
		tags = append(tags, "Desayuno incluido")
	}

	return tags
}

func hasAmenity(amenities []string, want string) bool {
	for _, a := range amenities {
		if strings.Contains(strings.ToLower(a), want) {
			return true
		}
	}
	return false
}

// bookingLink is always synthesized — the provider response carries no public
// booking URL. The partner marker comes from configuration.
func (c *HotelsClient) bookingLink(locationID int, hotelID string, q HotelQuery) string {
	params := url.Values{}
	params.Set("locationId", fmt.Sprintf("%d", locationID))
	params.Set("checkIn", q.CheckIn)
	params.Set("checkOut", q.CheckOut)
	params.Set("adultsCount", fmt.Sprintf("%d", q.Adults))
	params.Set("currency", q.Currency)
	params.Set("hotelId", hotelID)
	params.Set("marker", c.marker)
	return "https://search.hotellook.com/hotels?" + params.Encode()
}
