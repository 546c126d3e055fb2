package config

import (
	"context"
	"log"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/utils"

	"github.com/shopspring/decimal"
)

// SeedDatabase creates the first staff account and the standard room types
// on an empty database. Existing data is left alone.
func SeedDatabase(ctx context.Context, store repository.Store, cfg *Config) error {
	// ---------------- Staff ----------------
	staffCount, err := store.CountStaff(ctx)
	if err != nil {
		return err
	}
	if staffCount == 0 {
		hash, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}
		if err := store.CreateStaff(ctx, &models.Staff{
			FullName: "Admin User",
			Username: cfg.AdminUsername,
			Password: hash,
			Role:     "Manager",
		}); err != nil {
			return err
		}
		log.Println("Default staff account seeded")
	}

	// ---------------- RoomTypes ----------------
	types, err := store.ListRoomTypes(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		defaults := []models.RoomType{
			{TypeName: "Standard", Description: "Standard Room", Capacity: 2, BasePrice: decimal.NewFromInt(1200)},
			{TypeName: "Superior", Description: "Superior Room", Capacity: 3, BasePrice: decimal.NewFromInt(1800)},
			{TypeName: "Deluxe", Description: "Deluxe Room", Capacity: 4, BasePrice: decimal.NewFromInt(2500)},
			{TypeName: "Suite", Description: "Suite", Capacity: 5, BasePrice: decimal.NewFromInt(5500)},
		}
		for i := range defaults {
			if err := store.CreateRoomType(ctx, &defaults[i]); err != nil {
				return err
			}
		}
		log.Println("RoomTypes seeded")
	}
	return nil
}
