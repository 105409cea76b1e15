package portfolio

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *Portfolio) error
	FindByID(ctx context.Context, id uint64) (*Portfolio, error)
	FindBySlug(ctx context.Context, slug string) (*Portfolio, error)
	ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]Portfolio, ListMeta, error)
	Update(ctx context.Context, portfolio *Portfolio) error
	Delete(ctx context.Context, id uint64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type PortfolioRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new portfolio repository
func NewRepository(db *gorm.DB) PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

type ListMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *PortfolioRepositoryImpl) Create(ctx context.Context, portfolio *Portfolio) error {
	now := time.Now().UTC()
	portfolio.CreatedAt = now
	portfolio.UpdatedAt = now
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *PortfolioRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Portfolio, error) {
	var p Portfolio
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortfolioRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Portfolio, error) {
	var p Portfolio
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortfolioRepositoryImpl) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]Portfolio, ListMeta, error) {
	var portfolios []Portfolio
	var totalRecords int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&Portfolio{}).Where("user_id = ?", userID).Count(&totalRecords).Error; err != nil {
		return portfolios, ListMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&portfolios).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return portfolios, ListMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

func (r *PortfolioRepositoryImpl) Update(ctx context.Context, portfolio *Portfolio) error {
	portfolio.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(portfolio).Error
}

func (r *PortfolioRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Portfolio{}, id).Error
}

func (r *PortfolioRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Model(&Portfolio{}).
		Select("count(1) > 0").
		Where("slug = ?", slug).
		Find(&exists).Error
	return exists, err
}
