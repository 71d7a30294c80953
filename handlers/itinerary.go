package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"tripdesk/database"
	"tripdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GenerateItineraryRequest struct {
	FlightSearchID string `json:"flight_search_id" binding:"required"`
	HotelSearchID  string `json:"hotel_search_id" binding:"required"`
	FlightIndex    int    `json:"flight_index"`
	HotelIndex     int    `json:"hotel_index"`
	TravelerName   string `json:"traveler_name"`
}

type GenerateItineraryResponse struct {
	ItineraryID string `json:"itinerary_id"`
	PDFURL      string `json:"pdf_url"`
}

// GenerateItinerary handles POST /generate-itinerary: it combines one flight
// and one hotel from two saved searches into a summarized PDF itinerary.
func GenerateItinerary(recommender *services.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search history is disabled; itineraries are unavailable"})
			return
		}

		var req GenerateItineraryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		flightSearch, err := database.GetSearch(req.FlightSearchID)
		if err != nil || flightSearch.Kind != "flights" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flight search not found"})
			return
		}
		hotelSearch, err := database.GetSearch(req.HotelSearchID)
		if err != nil || hotelSearch.Kind != "hotels" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel search not found"})
			return
		}

		var flights []services.FlightOffer
		var hotels []services.HotelOffer
		if err := json.Unmarshal([]byte(flightSearch.OffersJSON), &flights); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse saved flight offers"})
			return
		}
		if err := json.Unmarshal([]byte(hotelSearch.OffersJSON), &hotels); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse saved hotel offers"})
			return
		}
		if len(flights) == 0 || len(hotels) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Both searches must contain at least one offer"})
			return
		}

		if req.FlightIndex < 0 || req.FlightIndex >= len(flights) {
			req.FlightIndex = 0
		}
		if req.HotelIndex < 0 || req.HotelIndex >= len(hotels) {
			req.HotelIndex = 0
		}

		flight := flights[req.FlightIndex]
		hotel := hotels[req.HotelIndex]

		var hotelQuery services.HotelQuery
		if err := json.Unmarshal([]byte(hotelSearch.QueryJSON), &hotelQuery); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse saved hotel query"})
			return
		}

		nights := hotelQuery.Nights()
		estimated := flightSearch.IsEstimated || hotelSearch.IsEstimated
		summary := recommender.Summarize(c.Request.Context(), flight, hotel, nights, estimated)

		pdfBytes, err := services.BuildItineraryPDF(services.ItineraryDoc{
			TravelerName: req.TravelerName,
			Flight:       flight,
			Hotel:        hotel,
			CheckIn:      hotelQuery.CheckIn,
			CheckOut:     hotelQuery.CheckOut,
			Nights:       nights,
			TotalCost:    flight.Price + hotel.PricePerNight*float64(nights),
			Summary:      summary,
			IsEstimated:  estimated,
		})
		if err != nil {
			log.Printf("❌ PDF generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}

		id := uuid.New().String()
		if err := database.SaveItinerary(&database.Itinerary{
			ID:             id,
			FlightSearchID: req.FlightSearchID,
			HotelSearchID:  req.HotelSearchID,
			TravelerName:   req.TravelerName,
			Summary:        summary,
			PDFData:        pdfBytes,
		}); err != nil {
			log.Printf("❌ Failed to save itinerary: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save itinerary"})
			return
		}

		c.JSON(http.StatusOK, GenerateItineraryResponse{
			ItineraryID: id,
			PDFURL:      "/download/" + id,
		})
	}
}
