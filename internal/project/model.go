package project

import (
	"time"
)

// Project is a portfolio's showcased work item
type Project struct {
	ID          uint64    `json:"id"`
	PortfolioID uint64    `json:"portfolio_id" gorm:"index"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	ImageURL    string    `json:"image_url"`
	Order       int       `json:"order" gorm:"column:sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
