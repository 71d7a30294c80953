package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tripdesk/database"
	"tripdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SearchFlights handles POST /search-flights. Validation failures come back
// as 400 with one detail per violated field; everything else is a 200
// envelope — degraded searches included.
func SearchFlights(searcher *services.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q services.FlightQuery
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": []string{err.Error()},
			})
			return
		}

		result, err := searcher.SearchFlights(c.Request.Context(), q)
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid search parameters",
				"details": verr.Details,
			})
			return
		}

		saveSearch(c, "flights", q, result.Flights, result.IsEstimated)
		c.JSON(http.StatusOK, result)
	}
}

// SearchHotels handles POST /search-hotels.
func SearchHotels(searcher *services.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q services.HotelQuery
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request body",
				"details": []string{err.Error()},
			})
			return
		}

		result, err := searcher.SearchHotels(c.Request.Context(), q)
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid search parameters",
				"details": verr.Details,
			})
			return
		}

		saveSearch(c, "hotels", q, result.Hotels, result.IsEstimated)
		c.JSON(http.StatusOK, result)
	}
}

// saveSearch records the search when persistence is configured. A failed save
// never fails the search itself.
func saveSearch(c *gin.Context, kind string, query, offers interface{}, estimated bool) {
	if database.DB == nil {
		return
	}

	queryJSON, _ := json.Marshal(query)
	offersJSON, _ := json.Marshal(offers)

	id := uuid.New().String()
	if err := database.SaveSearch(&database.Search{
		ID:          id,
		Kind:        kind,
		QueryJSON:   string(queryJSON),
		OffersJSON:  string(offersJSON),
		IsEstimated: estimated,
	}); err != nil {
		log.Printf("⚠️  Failed to save %s search: %v", kind, err)
		return
	}
	c.Header("X-Search-ID", id)
}

func Health(c *gin.Context) {
	dbStatus := "disabled"
	if database.DB != nil {
		dbStatus = "ok"
		if err := database.DB.Ping(); err != nil {
			dbStatus = "error: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "TripDesk API",
		"database": dbStatus,
	})
}
