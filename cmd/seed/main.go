package main

import (
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/readnest/readnest-api/config"
	"github.com/readnest/readnest-api/pkg/helpers"
)

// Seeds a demo user and a couple of books for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@readnest.local"
	password := "password123"
	username := "demo"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, email, username, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	log.Printf("seeded user %s (%s / %s)", userID, email, password)

	books := []struct {
		title, author, genre, summary string
		year                          int
	}{
		{"The Left Hand of Darkness", "Ursula K. Le Guin", "science fiction", "An envoy on a planet of ambisexual humans.", 1969},
		{"Piranesi", "Susanna Clarke", "fantasy", "A man lives in a house with infinite halls and tides.", 2020},
	}
	for _, b := range books {
		var bookID string
		err = db.QueryRow(`
			INSERT INTO books (title, author, genre, published_year, summary, cover_image_url, created_by)
			VALUES ($1, $2, $3, $4, $5, '', $6)
			RETURNING id
		`, b.title, b.author, b.genre, b.year, b.summary, userID).Scan(&bookID)
		if err != nil {
			log.Fatalf("failed to seed book %q: %v", b.title, err)
		}
		log.Printf("seeded book %s (%s)", bookID, b.title)
	}
}
