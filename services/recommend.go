package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tripdesk/config"
)

// Recommender produces the short trip summary attached to a generated
// itinerary. With an API key it asks a hosted model; without one, or on any
// failure, it falls back to deterministic text.
type Recommender struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewRecommender(cfg config.Config) *Recommender {
	return &Recommender{
		apiKey: cfg.HFAPIKey,
		model:  cfg.HFModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// Summarize never fails; the fallback text covers every error path.
func (r *Recommender) Summarize(ctx context.Context, flight FlightOffer, hotel HotelOffer, nights int, estimated bool) string {
	if r.apiKey != "" {
		summary, err := r.generate(ctx, flight, hotel, nights, estimated)
		if err == nil {
			return summary
		}
		log.Printf("⚠️  AI summary failed: %v — using fallback text", err)
	}
	return fallbackSummary(flight, hotel, nights, estimated)
}

func (r *Recommender) generate(ctx context.Context, flight FlightOffer, hotel HotelOffer, nights int, estimated bool) (string, error) {
	reqBody := hfRequest{
		Inputs: buildPrompt(flight, hotel, nights, estimated),
		Parameters: hfParameters{
			MaxNewTokens:   300,
			Temperature:    0.6,
			ReturnFullText: false,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("https://api-inference.huggingface.co/models/%s", r.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed hfResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse AI response: %w", err)
	}
	if len(parsed) == 0 || parsed[0].GeneratedText == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return parsed[0].GeneratedText, nil
}

func buildPrompt(flight FlightOffer, hotel HotelOffer, nights int, estimated bool) string {
	dataNote := ""
	if estimated {
		dataNote = " Note: prices are estimated — real-time data was unavailable."
	}

	return fmt.Sprintf(`[INST] You are a helpful travel assistant.%s

Trip: %s → %s
Flight: %s at $%.0f
Hotel: %s at $%.0f/night for %d night(s), rated %.1f

In 120 words or fewer, summarize this itinerary for the traveler and mention
one practical tip for the destination. Be direct. [/INST]`,
		dataNote,
		flight.Origin, flight.Destination,
		flight.Airline, flight.Price,
		hotel.Name, hotel.PricePerNight, nights, hotel.Rating,
	)
}

func fallbackSummary(flight FlightOffer, hotel HotelOffer, nights int, estimated bool) string {
	total := flight.Price + hotel.PricePerNight*float64(nights)
	note := ""
	if estimated {
		note = " Prices are estimates; confirm before booking."
	}
	return fmt.Sprintf(
		"Your trip from %s to %s: %s flight at $%.0f, staying at %s ($%.0f/night, rated %.1f). "+
			"Estimated total for %d night(s): $%.0f.%s",
		flight.Origin, flight.Destination,
		flight.Airline, flight.Price,
		hotel.Name, hotel.PricePerNight, hotel.Rating,
		nights, total, note,
	)
}
