package main

import (
	"log"
	"os"
	"strings"
	"time"

	"panelkeu/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// initDB opens the session/preference store. A Postgres DSN in DB_DSN is the
// production setup; without one the panel falls back to an embedded sqlite
// file so a single binary can run standalone.
func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "panelkeu.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	} else {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		log.Fatal("failed to connect session store:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.Session{}); err != nil {
			log.Printf("migration warning (sessions): %v", err)
		}
		if err := db.AutoMigrate(&models.Preference{}); err != nil {
			log.Printf("migration warning (preferences): %v", err)
		}
	}
	sweepExpiredSessions()
}

// sweepExpiredSessions drops stale and revoked rows at boot so the store
// does not grow without bound.
func sweepExpiredSessions() {
	res := db.Where("expires_at < ? OR revoked = ?", time.Now(), true).Delete(&models.Session{})
	if res.Error != nil {
		log.Printf("session sweep warning: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("swept %d expired sessions", res.RowsAffected)
	}
}
