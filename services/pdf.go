package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ItineraryDoc holds everything needed to render one itinerary PDF.
type ItineraryDoc struct {
	TravelerName string
	Flight       FlightOffer
	Hotel        HotelOffer
	CheckIn      string
	CheckOut     string
	Nights       int
	TotalCost    float64
	Summary      string
	IsEstimated  bool
}

// BuildItineraryPDF renders the document and returns raw bytes; PDFs are
// stored in the database, never on the filesystem.
func BuildItineraryPDF(doc ItineraryDoc) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(16, 32, 50)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "TripDesk", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Travel Itinerary", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// Disclaimer box
	pdf.SetFillColor(250, 245, 230)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	disclaimer := "This is NOT a booking confirmation. Prices are subject to change; verify with providers before booking."
	if doc.IsEstimated {
		disclaimer = "ESTIMATED PRICES — live provider data was unavailable. This is NOT a booking confirmation."
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(164, 4, disclaimer, "", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	sectionHeader := func(title string) {
		pdf.SetFillColor(16, 32, 50)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	sectionHeader("Traveler")
	name := doc.TravelerName
	if name == "" {
		name = "Guest Traveler"
	}
	row("Name", name)
	row("Generated", time.Now().UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	sectionHeader("Flight")
	row("Route", fmt.Sprintf("%s -> %s", doc.Flight.Origin, doc.Flight.Destination))
	row("Airline", doc.Flight.Airline)
	if doc.Flight.DepartureTime != nil {
		row("Departure", readableTimestamp(*doc.Flight.DepartureTime))
	}
	stops := "Direct"
	if doc.Flight.Stops != nil && *doc.Flight.Stops > 0 {
		stops = fmt.Sprintf("%d stop(s)", *doc.Flight.Stops)
	}
	row("Stops", stops)
	row("Price", fmt.Sprintf("%.0f %s", doc.Flight.Price, doc.Flight.Currency))
	pdf.Ln(4)

	sectionHeader("Hotel")
	row("Hotel", doc.Hotel.Name)
	if doc.Hotel.Address != "" {
		row("Address", doc.Hotel.Address)
	}
	row("Rating", fmt.Sprintf("%.1f / 10", doc.Hotel.Rating))
	if len(doc.Hotel.Tags) > 0 {
		row("Highlights", strings.Join(doc.Hotel.Tags, " · "))
	}
	row("Check-in", readableDate(doc.CheckIn))
	row("Check-out", readableDate(doc.CheckOut))
	row("Price", fmt.Sprintf("$%.0f/night x %d night(s) = $%.0f",
		doc.Hotel.PricePerNight, doc.Nights, doc.Hotel.PricePerNight*float64(doc.Nights)))
	pdf.Ln(4)

	sectionHeader("Cost Estimate")
	row("Flight", fmt.Sprintf("$%.0f", doc.Flight.Price))
	row("Hotel total", fmt.Sprintf("$%.0f", doc.Hotel.PricePerNight*float64(doc.Nights)))

	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(16, 32, 50)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL ESTIMATE", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("$%.0f", doc.TotalCost), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if doc.Summary != "" {
		sectionHeader("Trip Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, doc.Summary, "", "L", false)
		pdf.Ln(4)
	}

	// Footer
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by TripDesk · Not a booking confirmation · Prices subject to change",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func readableDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}

func readableTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("02 Jan 2006 15:04")
}
