package config

import (
	"os"
	"strings"
)

// Config carries everything the service reads from the environment. It is
// loaded once at startup and injected into the clients that need it — nothing
// reads os.Getenv mid-request.
type Config struct {
	Port         string
	AllowOrigins []string

	// Travel-data providers. A single token covers both the flight-prices API
	// and the hotel lookup/cache pair; the marker is the affiliate id embedded
	// in synthesized booking links.
	ProviderToken string
	PartnerMarker string
	FlightAPIBase string
	HotelAPIBase  string

	DatabaseURL string

	// Optional AI summaries for generated itineraries.
	HFAPIKey string
	HFModel  string
}

func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		AllowOrigins:  []string{"http://localhost:5173", "http://localhost:3000"},
		ProviderToken: os.Getenv("TRAVELPAYOUTS_TOKEN"),
		PartnerMarker: getEnv("TRAVELPAYOUTS_MARKER", "direct"),
		FlightAPIBase: getEnv("FLIGHT_API_BASE", "https://api.travelpayouts.com"),
		HotelAPIBase:  getEnv("HOTEL_API_BASE", "https://engine.hotellook.com"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HFAPIKey:      os.Getenv("HUGGINGFACE_API_KEY"),
		HFModel:       getEnv("HF_MODEL", "mistralai/Mistral-7B-Instruct-v0.3"),
	}

	if urls := os.Getenv("FRONTEND_URL"); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, u)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
