package portfolio

import (
	"time"
)

// Portfolio is a user's published (or draft) page, addressed by slug
type Portfolio struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id" gorm:"index"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug" gorm:"uniqueIndex"`
	Description string    `json:"description"`
	Theme       string    `json:"theme"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
