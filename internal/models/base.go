package models

import "time"

// BaseModel carries the server-assigned columns shared by every entity.
// Unlike gorm.Model there is no soft-delete column: rows are removed for real
// so that the database's ON DELETE CASCADE rules apply.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}
