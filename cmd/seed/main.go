// Package main seeds a development database with demo partners and one
// paid order, enough to exercise the settlement flow end to end.
package main

import (
	"log"

	"github.com/google/uuid"

	"delivra/internal/config"
	"delivra/internal/models"
	"delivra/internal/repositories"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("Failed to get SQL DB instance: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	var count int64
	if err := db.Model(&models.Partner{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to inspect partners table: %v", err)
	}
	if count > 0 {
		log.Println("Partners already seeded")
		return
	}

	restaurant := models.Partner{
		ID:        uuid.New(),
		Role:      models.PartnerRoleRestaurant,
		Name:      "Cantina da Praça",
		PayoutKey: "pix:restaurant-demo",
	}
	courier := models.Partner{
		ID:        uuid.New(),
		Role:      models.PartnerRoleCourier,
		Name:      "Demo Courier",
		PayoutKey: "pix:courier-demo",
	}
	if err := db.Create(&restaurant).Error; err != nil {
		log.Fatalf("Failed to seed restaurant: %v", err)
	}
	if err := db.Create(&courier).Error; err != nil {
		log.Fatalf("Failed to seed courier: %v", err)
	}

	order := models.Order{
		ID:               uuid.New(),
		ClientID:         uuid.New(),
		RestaurantID:     restaurant.ID,
		SubtotalCents:    4500,
		DeliveryFeeCents: 700,
		TotalCents:       5200,
		Status:           models.OrderStatusAwaiting,
		PaymentStatus:    models.PaymentStatusAwaiting,
	}
	if err := db.Create(&order).Error; err != nil {
		log.Fatalf("Failed to seed demo order: %v", err)
	}

	log.Printf("Seeded restaurant %s, courier %s, order %s", restaurant.ID, courier.ID, order.ID)
}
