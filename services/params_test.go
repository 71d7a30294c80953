package services

import (
	"strings"
	"testing"
)

func TestFlightQueryValidate(t *testing.T) {
	tests := []struct {
		name        string
		query       FlightQuery
		wantDetails []string
	}{
		{
			name:  "valid round trip",
			query: FlightQuery{Origin: "LIM", Destination: "CUN", StartDate: "2025-03-10", EndDate: "2025-03-17", Passengers: 2},
		},
		{
			name:  "valid one way without endDate",
			query: FlightQuery{Origin: "Lima", Destination: "Cancún", StartDate: "2025-03-10", Passengers: 1},
		},
		{
			name:  "calendar-invalid day passes the shape check",
			query: FlightQuery{Origin: "LIM", Destination: "CUN", StartDate: "2024-02-30", Passengers: 1},
		},
		{
			name:        "short origin",
			query:       FlightQuery{Origin: "a", Destination: "CUN", StartDate: "2025-03-10", Passengers: 1},
			wantDetails: []string{"origin"},
		},
		{
			name:        "month out of range",
			query:       FlightQuery{Origin: "LIM", Destination: "CUN", StartDate: "2024-13-40", Passengers: 1},
			wantDetails: []string{"startDate"},
		},
		{
			name:        "endDate before startDate",
			query:       FlightQuery{Origin: "LIM", Destination: "CUN", StartDate: "2025-03-10", EndDate: "2025-03-01", Passengers: 1},
			wantDetails: []string{"endDate"},
		},
		{
			name:        "too many passengers",
			query:       FlightQuery{Origin: "LIM", Destination: "CUN", StartDate: "2025-03-10", Passengers: 21},
			wantDetails: []string{"passengers"},
		},
		{
			name:        "every violation reported at once",
			query:       FlightQuery{Origin: "a", Destination: "b", StartDate: "10/03/2025", Passengers: 0},
			wantDetails: []string{"origin", "destination", "startDate", "passengers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if len(tt.wantDetails) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want violations for %v", tt.wantDetails)
			}
			if len(err.Details) != len(tt.wantDetails) {
				t.Fatalf("got %d details %v, want %d", len(err.Details), err.Details, len(tt.wantDetails))
			}
			for i, field := range tt.wantDetails {
				if !strings.Contains(err.Details[i], field) {
					t.Errorf("details[%d] = %q, want mention of %q", i, err.Details[i], field)
				}
			}
		})
	}
}

func TestHotelQueryValidateDefaults(t *testing.T) {
	q := HotelQuery{Destination: "Cancún", CheckIn: "2025-03-10", CheckOut: "2025-03-12"}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	if q.Adults != 2 {
		t.Errorf("Adults = %d, want default 2", q.Adults)
	}
	if q.Currency != "USD" {
		t.Errorf("Currency = %q, want default USD", q.Currency)
	}
	if q.Limit != 10 {
		t.Errorf("Limit = %d, want default 10", q.Limit)
	}
}

func TestHotelQueryValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		query HotelQuery
		field string
	}{
		{"short destination", HotelQuery{Destination: "a", CheckIn: "2025-03-10", CheckOut: "2025-03-12"}, "destination"},
		{"bad iata", HotelQuery{Destination: "Cancún", IATACode: "CANC", CheckIn: "2025-03-10", CheckOut: "2025-03-12"}, "iataCode"},
		{"checkOut equals checkIn", HotelQuery{Destination: "Cancún", CheckIn: "2025-03-10", CheckOut: "2025-03-10"}, "checkOut"},
		{"too many adults", HotelQuery{Destination: "Cancún", CheckIn: "2025-03-10", CheckOut: "2025-03-12", Adults: 11}, "adults"},
		{"negative adults", HotelQuery{Destination: "Cancún", CheckIn: "2025-03-10", CheckOut: "2025-03-12", Adults: -1}, "adults"},
		{"limit over range is rejected, not clamped", HotelQuery{Destination: "Cancún", CheckIn: "2025-03-10", CheckOut: "2025-03-12", Limit: 21}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want violation of %q", tt.field)
			}
			found := false
			for _, d := range err.Details {
				if strings.Contains(d, tt.field) {
					found = true
				}
			}
			if !found {
				t.Errorf("details %v do not mention %q", err.Details, tt.field)
			}
		})
	}
}

func TestHotelQueryNights(t *testing.T) {
	q := HotelQuery{CheckIn: "2025-03-10", CheckOut: "2025-03-12"}
	if got := q.Nights(); got != 2 {
		t.Errorf("Nights() = %d, want 2", got)
	}

	// Calendar-invalid dates that passed the shape check fall back to 1.
	q = HotelQuery{CheckIn: "2024-02-30", CheckOut: "2024-03-02"}
	if got := q.Nights(); got != 1 {
		t.Errorf("Nights() = %d, want 1", got)
	}
}
