package asset

import (
	"time"
)

// Asset is one uploaded file: the database row tracking an object in storage
type Asset struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id" gorm:"index"`
	StorageKey  string    `json:"-" gorm:"index"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
