package handlers

import (
	"net/http"

	"tripdesk/database"

	"github.com/gin-gonic/gin"
)

// Download handles GET /download/:id, streaming a stored itinerary PDF.
func Download(c *gin.Context) {
	if database.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search history is disabled; itineraries are unavailable"})
		return
	}

	id := c.Param("id")
	itinerary, err := database.GetItinerary(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}
	if len(itinerary.PDFData) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF has not been generated for this itinerary"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=tripdesk-itinerary.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", itinerary.PDFData)
}
