package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/hotelreserve/hrs-backend/config"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminHash, err := helpers.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, status, is_default_password)
		VALUES ($1, LOWER($2), $3, 'admin', TRUE, FALSE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, cfg.AdminName, cfg.AdminEmail, adminHash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s\n", adminID, cfg.AdminEmail)

	// Demo customer on the default password, handy for local testing.
	customerHash, err := helpers.HashPassword(cfg.DefaultPassword)
	if err != nil {
		log.Fatalf("failed to hash default password: %v", err)
	}

	var customerID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, status, is_default_password)
		VALUES ('Demo Customer', 'customer@hrs.local', $1, 'customer', TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, customerHash).Scan(&customerID)
	if err != nil {
		log.Fatalf("failed to seed customer: %v", err)
	}
	fmt.Printf("seeded customer: id=%s email=customer@hrs.local password=%s\n", customerID, cfg.DefaultPassword)
}
