package models

import "time"

// Session is the server-side record of one logged-in panel user. The cookie
// only carries the session id; the backend bearer token, serialized user and
// active project all live here so a forced logout can clear everything in
// one delete.
type Session struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	TokenHash     string    `gorm:"size:128;not null;uniqueIndex"`
	BearerToken   string    `gorm:"size:2048;not null"`
	UserJSON      string    `gorm:"size:2048"`
	Role          int       `gorm:"not null"`
	WarehouseID   int64     `gorm:"index"`
	WarehouseName string    `gorm:"size:255"`
	ExpiresAt     time.Time `gorm:"index;not null"`
	Revoked       bool      `gorm:"default:false"`
}
