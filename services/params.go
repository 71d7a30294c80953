package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date inputs must look like YYYY-MM-DD with a plausible month and day. No
// calendar check beyond that: "2024-02-30" passes here and is left for the
// provider to reject or ignore.
var dateShape = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

var iataShape = regexp.MustCompile(`^[A-Za-z]{3}$`)

// ValidationError reports every violated rule of a search request, not just
// the first one, so the frontend can highlight all bad fields at once.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + strings.Join(e.Details, "; ")
}

// FlightQuery is the request body of POST /search-flights.
type FlightQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Passengers  int    `json:"passengers"`
}

// Validate normalizes the query in place and returns every rule violation.
func (q *FlightQuery) Validate() *ValidationError {
	q.Origin = strings.TrimSpace(q.Origin)
	q.Destination = strings.TrimSpace(q.Destination)
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)

	var details []string

	if l := len(q.Origin); l < 2 || l > 100 {
		details = append(details, "origin must be between 2 and 100 characters")
	}
	if l := len(q.Destination); l < 2 || l > 100 {
		details = append(details, "destination must be between 2 and 100 characters")
	}
	if !dateShape.MatchString(q.StartDate) {
		details = append(details, "startDate must be a date in YYYY-MM-DD format")
	}
	if q.EndDate != "" {
		if !dateShape.MatchString(q.EndDate) {
			details = append(details, "endDate must be a date in YYYY-MM-DD format")
		} else if dateShape.MatchString(q.StartDate) && q.EndDate < q.StartDate {
			details = append(details, "endDate must be on or after startDate")
		}
	}
	if q.Passengers < 1 || q.Passengers > 20 {
		details = append(details, "passengers must be between 1 and 20")
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

// HotelQuery is the request body of POST /search-hotels. Adults, currency and
// limit are optional on the wire; Validate fills their defaults.
type HotelQuery struct {
	Destination string `json:"destination"`
	IATACode    string `json:"iataCode,omitempty"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Adults      int    `json:"adults,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

func (q *HotelQuery) Validate() *ValidationError {
	q.Destination = strings.TrimSpace(q.Destination)
	q.IATACode = strings.ToUpper(strings.TrimSpace(q.IATACode))
	q.CheckIn = strings.TrimSpace(q.CheckIn)
	q.CheckOut = strings.TrimSpace(q.CheckOut)
	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))

	// Defaults for omitted optional fields. Out-of-range values are rejected
	// below, never clamped.
	if q.Adults == 0 {
		q.Adults = 2
	}
	if q.Currency == "" {
		q.Currency = "USD"
	}
	if q.Limit == 0 {
		q.Limit = 10
	}

	var details []string

	if len(q.Destination) < 2 {
		details = append(details, "destination must be at least 2 characters")
	}
	if q.IATACode != "" && !iataShape.MatchString(q.IATACode) {
		details = append(details, "iataCode must be a 3-letter airport code")
	}
	if !dateShape.MatchString(q.CheckIn) {
		details = append(details, "checkIn must be a date in YYYY-MM-DD format")
	}
	if !dateShape.MatchString(q.CheckOut) {
		details = append(details, "checkOut must be a date in YYYY-MM-DD format")
	} else if dateShape.MatchString(q.CheckIn) && q.CheckOut <= q.CheckIn {
		details = append(details, "checkOut must be after checkIn")
	}
	if q.Adults < 1 || q.Adults > 10 {
		details = append(details, fmt.Sprintf("adults must be between 1 and 10, got %d", q.Adults))
	}
	if q.Limit < 1 || q.Limit > 20 {
		details = append(details, fmt.Sprintf("limit must be between 1 and 20, got %d", q.Limit))
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

// Nights returns the stay length in nights, never less than 1. Dates that
// passed the shape check but are calendar-invalid fall back to 1.
func (q *HotelQuery) Nights() int {
	in, err1 := time.Parse("2006-01-02", q.CheckIn)
	out, err2 := time.Parse("2006-01-02", q.CheckOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}
