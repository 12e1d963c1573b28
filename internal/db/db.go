package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/models"
)

// DefaultServices seeds the care service catalog.
var DefaultServices = []models.CareService{
	{Name: "Family Care", Description: "Comprehensive care for family members", Price: 50, Active: true},
	{Name: "Pet Sitting", Description: "Care and companionship for pets", Price: 30, Active: true},
	{Name: "Elderly Assistance", Description: "Daily assistance for elderly relatives", Price: 70, Active: true},
	{Name: "Childcare Support", Description: "Supervision and support for children", Price: 45, Active: true},
	{Name: "Dog Walking", Description: "Regular walks for dogs", Price: 20, Active: true},
}

// Connect establishes a connection to the database
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := Prepare(database, cfg); err != nil {
		return nil, err
	}
	return database, nil
}

// Prepare migrates the schema and seeds the default admin and catalog.
func Prepare(database *gorm.DB, cfg config.DatabaseConfig) error {
	if err := database.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := createDefaultAdmin(database, cfg); err != nil {
		return err
	}
	return seedServices(database)
}

// ConnectRedis establishes a connection to Redis
func ConnectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// createDefaultAdmin creates a default admin user if no admin exists
func createDefaultAdmin(database *gorm.DB, cfg config.DatabaseConfig) error {
	var adminCount int64
	if err := database.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Name:           "Administrator",
		Email:          cfg.AdminEmail,
		HashedPassword: string(hashedPassword),
		Role:           models.RoleAdmin,
	}
	if err := database.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("created default admin user", "email", admin.Email)
	return nil
}

func seedServices(database *gorm.DB) error {
	for _, svc := range DefaultServices {
		var existing models.CareService
		err := database.Where("name = ?", svc.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("look up service %q: %w", svc.Name, err)
		}
		svc := svc
		if err := database.Create(&svc).Error; err != nil {
			return fmt.Errorf("seed service %q: %w", svc.Name, err)
		}
	}
	return nil
}
