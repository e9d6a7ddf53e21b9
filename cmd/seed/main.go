package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/tolmol/bidbazaar/internal/auth"
	"github.com/tolmol/bidbazaar/internal/config"
	"github.com/tolmol/bidbazaar/internal/db"
	"github.com/tolmol/bidbazaar/internal/models"
)

type seedAuction struct {
	title       string
	description string
	category    string
	location    string
	state       string
	price       int64
	duration    time.Duration
}

var seedAuctions = []seedAuction{
	{"Fix leaking kitchen tap", "Single-lever mixer tap drips constantly, likely needs a new cartridge.", "home_repair", "Andheri West", "mumbai", 1500, 72 * time.Hour},
	{"Deep clean 2BHK apartment", "Full deep clean including kitchen degreasing and bathroom descaling.", "cleaning", "Koramangala", "karnataka", 3500, 48 * time.Hour},
	{"Class 10 maths tutoring", "Two sessions a week for a month, CBSE syllabus.", "tutoring", "Salt Lake", "kolkata", 4000, 120 * time.Hour},
	{"Logo design for bakery", "Need a warm, hand-drawn style logo with two revisions.", "design", "Indiranagar", "karnataka", 5000, 96 * time.Hour},
	{"Laptop won't boot", "Dell Inspiron shows logo then a black screen. Diagnosis and repair.", "tech_support", "Connaught Place", "delhi", 2000, 24 * time.Hour},
}

// Seed the database with demo users, auctions and bids
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.NewDB(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Skip if the database already has listings
	var count int
	if err := database.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM auctions").Scan(&count); err != nil {
		log.Fatalf("Failed to check auctions: %v", err)
	}
	if count > 0 {
		fmt.Printf("Database already has %d auctions. No need to seed.\n", count)
		os.Exit(0)
	}

	authService := auth.NewAuthService(database, cfg.JWT.Secret, 24*time.Hour)

	provider := mustRegister(ctx, authService, auth.RegisterParams{
		Username: "demo_provider", Email: "provider@example.com",
		Password: "password123", IsServiceProvider: true,
	})
	bidder1 := mustRegister(ctx, authService, auth.RegisterParams{
		Username: "demo_bidder1", Email: "bidder1@example.com", Password: "password123",
	})
	bidder2 := mustRegister(ctx, authService, auth.RegisterParams{
		Username: "demo_bidder2", Email: "bidder2@example.com", Password: "password123",
	})

	now := time.Now()
	for i, s := range seedAuctions {
		a, err := database.CreateAuction(ctx, &models.Auction{
			Title:         s.title,
			Description:   s.description,
			Category:      s.category,
			Location:      s.location,
			State:         s.state,
			StartingPrice: decimal.NewFromInt(s.price),
			EndTime:       now.Add(s.duration),
			CreatorID:     provider.ID,
		})
		if err != nil {
			log.Fatalf("Failed to create auction: %v", err)
		}

		// Alternate bidders so every auction gets a descending pair of bids
		first, second := bidder1, bidder2
		if i%2 == 1 {
			first, second = bidder2, bidder1
		}
		placeBid(ctx, database, a.ID, first.ID, decimal.NewFromInt(s.price-100))
		placeBid(ctx, database, a.ID, second.ID, decimal.NewFromInt(s.price-250))
	}

	fmt.Printf("Seeded %d auctions with demo users and bids.\n", len(seedAuctions))
}

func mustRegister(ctx context.Context, s *auth.AuthService, p auth.RegisterParams) *models.User {
	user, err := s.Register(ctx, p)
	if err != nil {
		log.Fatalf("Failed to create user %s: %v", p.Username, err)
	}
	return user
}

func placeBid(ctx context.Context, database *db.DB, auctionID, bidderID int, amount decimal.Decimal) {
	if _, err := database.PlaceBid(ctx, auctionID, bidderID, amount, time.Now()); err != nil {
		log.Fatalf("Failed to place seed bid: %v", err)
	}
}
