package main

import (
	"fmt"
	"log"
	"time"

	"reservly/internal/businesses"
	"reservly/internal/policies"
	"reservly/internal/reservations"
	"reservly/internal/shared/config"
	"reservly/internal/shared/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Reservly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"reservations",
		"cancellation_policies",
		"businesses",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds demo tenants, their cancellation rules and a few reservations
func (s *Seeder) SeedAll() error {
	businessIDs, err := s.SeedBusinesses()
	if err != nil {
		return fmt.Errorf("failed to seed businesses: %w", err)
	}

	if err := s.SeedPolicies(businessIDs); err != nil {
		return fmt.Errorf("failed to seed cancellation policies: %w", err)
	}

	if err := s.SeedReservations(businessIDs); err != nil {
		return fmt.Errorf("failed to seed reservations: %w", err)
	}

	return nil
}

// SeedBusinesses creates one demo tenant per supported business type
func (s *Seeder) SeedBusinesses() (map[string]uuid.UUID, error) {
	now := time.Now().UTC()
	demos := []businesses.Business{
		{
			ID:                uuid.New(),
			Name:              "Harborview Hotel",
			Type:              "HOTEL",
			Email:             "frontdesk@harborview.example",
			Phone:             "+1-555-0101",
			Timezone:          "America/New_York",
			Currency:          "USD",
			CurrencyPrecision: 2,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New(),
			Name:              "Sakura Omakase",
			Type:              "RESTAURANT",
			Email:             "reservations@sakura.example",
			Phone:             "+81-555-0102",
			Timezone:          "Asia/Tokyo",
			Currency:          "JPY",
			CurrencyPrecision: 0,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:                uuid.New(),
			Name:              "Velvet & Shears",
			Type:              "SALON",
			Email:             "hello@velvetshears.example",
			Phone:             "+1-555-0103",
			Timezone:          "America/Chicago",
			Currency:          "USD",
			CurrencyPrecision: 2,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
	}

	ids := make(map[string]uuid.UUID, len(demos))
	for _, b := range demos {
		if err := s.db.PostgreSQL.Create(&b).Error; err != nil {
			return nil, err
		}
		ids[b.Type] = b.ID
		fmt.Printf("  Created business: %s (%s)\n", b.Name, b.Type)
	}

	return ids, nil
}

// SeedPolicies creates a conventional tiered rule set for each tenant. Every
// set includes a zero-day catch-all so late cancellations still resolve.
func (s *Seeder) SeedPolicies(businessIDs map[string]uuid.UUID) error {
	tiers := map[string][]struct {
		daysBefore int
		refundPct  string
	}{
		"HOTEL": {
			{30, "100"},
			{7, "50"},
			{0, "0"},
		},
		"RESTAURANT": {
			{2, "100"},
			{0, "0"},
		},
		"SALON": {
			{3, "100"},
			{1, "50"},
			{0, "0"},
		},
	}

	now := time.Now().UTC()
	for businessType, rules := range tiers {
		businessID, ok := businessIDs[businessType]
		if !ok {
			continue
		}
		for _, rule := range rules {
			pct, err := decimal.NewFromString(rule.refundPct)
			if err != nil {
				return err
			}
			policy := policies.CancellationPolicy{
				ID:               uuid.New(),
				BusinessID:       businessID,
				DaysBefore:       rule.daysBefore,
				RefundPercentage: pct,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := s.db.PostgreSQL.Create(&policy).Error; err != nil {
				return err
			}
			fmt.Printf("  Created policy for %s: %d+ days → %s%%\n", businessType, rule.daysBefore, rule.refundPct)
		}
	}

	return nil
}

// SeedReservations creates upcoming paid reservations for the hotel tenant
func (s *Seeder) SeedReservations(businessIDs map[string]uuid.UUID) error {
	hotelID, ok := businessIDs["HOTEL"]
	if !ok {
		return nil
	}

	now := time.Now().UTC()
	guests := []struct {
		name    string
		email   string
		daysOut int
		total   string
	}{
		{"Ava Martin", "ava.martin@example.com", 45, "620.00"},
		{"Noah Patel", "noah.patel@example.com", 10, "380.00"},
		{"Mia Chen", "mia.chen@example.com", 2, "199.99"},
	}

	for _, g := range guests {
		total, err := decimal.NewFromString(g.total)
		if err != nil {
			return err
		}
		checkIn := now.AddDate(0, 0, g.daysOut)
		reservation := reservations.Reservation{
			ID:            uuid.New(),
			BusinessID:    hotelID,
			GuestName:     g.name,
			GuestEmail:    g.email,
			CheckIn:       checkIn,
			CheckOut:      checkIn.AddDate(0, 0, 2),
			TotalAmount:   total,
			Currency:      "USD",
			Status:        reservations.StatusConfirmed.String(),
			PaymentStatus: reservations.PaymentPaid.String(),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.db.PostgreSQL.Create(&reservation).Error; err != nil {
			return err
		}
		fmt.Printf("  Created reservation for %s, check-in in %d days\n", g.name, g.daysOut)
	}

	return nil
}
