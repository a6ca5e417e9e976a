// Command seed creates the schema and fills empty tables with sample rows so
// a fresh environment has data to browse.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/vehicle-repair-shop/internal/config"
	"github.com/iliyamo/vehicle-repair-shop/internal/database"
	"github.com/iliyamo/vehicle-repair-shop/internal/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS repairs (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		brand VARCHAR(100) NOT NULL,
		model VARCHAR(100) NOT NULL,
		year INT NOT NULL DEFAULT 0,
		problem TEXT,
		status ENUM('pending','in_progress','completed') NOT NULL DEFAULT 'pending',
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		image VARCHAR(255) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS details (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		quantity INT NOT NULL DEFAULT 0,
		is_available BOOLEAN NOT NULL DEFAULT FALSE,
		weight DECIMAL(10,2) NOT NULL DEFAULT 0,
		image VARCHAR(255) NULL
	)`,
}

var (
	brands   = []string{"Toyota", "Lada", "Volkswagen", "Ford", "BMW", "Kia", "Renault", "Honda"}
	models   = []string{"Corolla", "Vesta", "Golf", "Focus", "X5", "Rio", "Logan", "Civic"}
	problems = []string{
		"engine stalls at idle",
		"brake pads worn out",
		"gearbox grinding in second gear",
		"coolant leak under the radiator",
		"suspension knocking on rough roads",
		"battery drains overnight",
	}
	statuses = []string{repository.StatusPending, repository.StatusInProgress, repository.StatusCompleted}
	parts    = []string{"Oil filter", "Brake disc", "Spark plug", "Timing belt", "Water pump", "Shock absorber", "Air filter", "Clutch kit"}
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	log.Println("schema ready")

	if err := seedRepairs(ctx, db, 100); err != nil {
		log.Fatalf("seed repairs: %v", err)
	}
	if err := seedDetails(ctx, db, 100); err != nil {
		log.Fatalf("seed details: %v", err)
	}
}

// seedRepairs inserts count sample repairs, but only into an empty table.
func seedRepairs(ctx context.Context, db *sql.DB, count int) error {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM repairs").Scan(&total); err != nil {
		return err
	}
	if total > 0 {
		log.Println("repairs table already has data, skipping")
		return nil
	}
	for i := 0; i < count; i++ {
		_, err := db.ExecContext(ctx,
			"INSERT INTO repairs (brand, model, year, problem, status, price, image) VALUES (?,?,?,?,?,?,?)",
			brands[rand.Intn(len(brands))],
			models[rand.Intn(len(models))],
			1990+rand.Intn(36),
			problems[rand.Intn(len(problems))],
			statuses[rand.Intn(len(statuses))],
			100+rand.Float64()*4900,
			nil)
		if err != nil {
			return err
		}
	}
	log.Printf("inserted %d repairs", count)
	return nil
}

// seedDetails inserts count sample spare parts, but only into an empty table.
func seedDetails(ctx context.Context, db *sql.DB, count int) error {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM details").Scan(&total); err != nil {
		return err
	}
	if total > 0 {
		log.Println("details table already has data, skipping")
		return nil
	}
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s #%d", parts[rand.Intn(len(parts))], i+1)
		_, err := db.ExecContext(ctx,
			"INSERT INTO details (name, description, price, quantity, is_available, weight, image) VALUES (?,?,?,?,?,?,?)",
			name,
			"OEM replacement part",
			5+rand.Float64()*495,
			rand.Intn(101),
			rand.Intn(2) == 1,
			0.1+rand.Float64()*9.9,
			nil)
		if err != nil {
			return err
		}
	}
	log.Printf("inserted %d details", count)
	return nil
}
