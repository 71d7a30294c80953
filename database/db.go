package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// ─── Models ──────────────────────────────────────────────────────────────────

// Search records one executed offer search: the raw query, the normalized
// offers and whether the result was estimated. Kind is "flights" or "hotels".
type Search struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	QueryJSON   string    `json:"query_json"`
	OffersJSON  string    `json:"offers_json"`
	IsEstimated bool      `json:"is_estimated"`
	CreatedAt   time.Time `json:"created_at"`
}

type Itinerary struct {
	ID             string    `json:"id"`
	FlightSearchID string    `json:"flight_search_id"`
	HotelSearchID  string    `json:"hotel_search_id"`
	TravelerName   string    `json:"traveler_name"`
	Summary        string    `json:"summary"`
	PDFData        []byte    `json:"pdf_data,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ─── Init ─────────────────────────────────────────────────────────────────────

// Init opens the connection pool and runs migrations. With an empty DSN the
// service runs without persistence: searches still work, itinerary endpoints
// report that history is disabled.
func Init(dsn string) {
	if dsn == "" {
		log.Println("⚠️  DATABASE_URL not set — search history and itineraries disabled")
		return
	}

	var err error
	DB, err = sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}

	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// The managed Postgres may take a moment to accept connections.
	for i := 0; i < 10; i++ {
		if err = DB.Ping(); err == nil {
			break
		}
		log.Printf("⏳ Waiting for database... attempt %d/10: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("❌ Failed to connect to database after retries: %v", err)
	}

	migrate()
	log.Println("✅ Database connected and migrated")
}

func migrate() {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			id           TEXT PRIMARY KEY,
			kind         TEXT NOT NULL,
			query_json   TEXT NOT NULL,
			offers_json  TEXT NOT NULL,
			is_estimated BOOLEAN NOT NULL DEFAULT TRUE,
			created_at   TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS itineraries (
			id               TEXT PRIMARY KEY,
			flight_search_id TEXT NOT NULL REFERENCES searches(id),
			hotel_search_id  TEXT NOT NULL REFERENCES searches(id),
			traveler_name    TEXT,
			summary          TEXT,
			pdf_data         BYTEA,
			created_at       TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_searches_created_at
			ON searches(created_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := DB.Exec(m); err != nil {
			log.Fatalf("❌ Migration failed: %v\nSQL: %s", err, m)
		}
	}
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func SaveSearch(s *Search) error {
	_, err := DB.Exec(`
		INSERT INTO searches (id, kind, query_json, offers_json, is_estimated)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Kind, s.QueryJSON, s.OffersJSON, s.IsEstimated)
	return err
}

func GetSearch(id string) (*Search, error) {
	s := &Search{}
	err := DB.QueryRow(`
		SELECT id, kind, query_json, offers_json, is_estimated, created_at
		FROM searches WHERE id = $1`, id).
		Scan(&s.ID, &s.Kind, &s.QueryJSON, &s.OffersJSON, &s.IsEstimated, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func SaveItinerary(i *Itinerary) error {
	_, err := DB.Exec(`
		INSERT INTO itineraries (id, flight_search_id, hotel_search_id, traveler_name, summary, pdf_data)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.FlightSearchID, i.HotelSearchID, i.TravelerName, i.Summary, i.PDFData)
	return err
}

func GetItinerary(id string) (*Itinerary, error) {
	i := &Itinerary{}
	err := DB.QueryRow(`
		SELECT id, flight_search_id, hotel_search_id, traveler_name, summary, pdf_data, created_at
		FROM itineraries WHERE id = $1`, id).
		Scan(&i.ID, &i.FlightSearchID, &i.HotelSearchID, &i.TravelerName, &i.Summary, &i.PDFData, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}
