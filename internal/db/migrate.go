package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/paraiso360/paraiso360/internal/models"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	// Basic connectivity test
	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// Print masked DSN once for diagnostics (before migrations for visibility)
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)
	// MIGRATIONS=1 runs sql migrations via golang-migrate; otherwise AutoMigrate (dev convenience)
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrateAll(db); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "clients", "plots"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	// Seeding only when explicitly requested (e.g. development) via DB_SEED=1|true
	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		Seed(db)
	}
	return db, nil
}

// AutoMigrateAll migrates every model the application persists. Shared with
// tests so in-memory sqlite databases get the same schema.
func AutoMigrateAll(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.User{}, &models.Client{}, &models.Plot{}, &models.Interment{},
		&models.Payment{}, &models.DocumentRecord{}, &models.AuditLog{}, &models.Notification{},
	}
	for _, m := range modelsToMigrate {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// Seed creates a default admin account and a small starter plot inventory so a
// fresh environment is usable immediately. Safe to run repeatedly.
func Seed(db *gorm.DB) {
	var adminCount int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&adminCount)
	if adminCount == 0 {
		pass := os.Getenv("ADMIN_PASSWORD")
		if pass == "" {
			pass = "changeme"
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		db.Create(&models.User{Username: "admin", Password: string(hash), FullName: "Administrator", Role: models.RoleAdmin, Status: models.UserActive})
	}

	basePlots := []models.Plot{
		{Section: "A", BlockNumber: "01", LotNumber: "001", Type: "Lawn Lot", Capacity: 2, Dimensions: "2.5m x 1.0m"},
		{Section: "A", BlockNumber: "01", LotNumber: "002", Type: "Lawn Lot", Capacity: 2, Dimensions: "2.5m x 1.0m"},
		{Section: "B", BlockNumber: "01", LotNumber: "001", Type: "Garden Lot", Capacity: 4, Dimensions: "5.0m x 2.5m"},
		{Section: "C", BlockNumber: "02", LotNumber: "001", Type: "Mausoleum Niche", Capacity: 1},
	}
	for _, p := range basePlots {
		var existing models.Plot
		err := db.Where("section = ? AND block_number = ? AND lot_number = ?", p.Section, p.BlockNumber, p.LotNumber).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p.ID = uuid.NewString()
			p.Status = models.StatusAvailable
			db.Create(&p)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
