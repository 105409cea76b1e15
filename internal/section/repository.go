package section

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type SectionRepository interface {
	Create(ctx context.Context, section *Section) error
	FindByID(ctx context.Context, id uint64) (*Section, error)
	ListByPortfolio(ctx context.Context, portfolioID uint64, includeHidden bool) ([]Section, error)
	MaxOrder(ctx context.Context, portfolioID uint64) (int, error)
	Update(ctx context.Context, section *Section) error
	Delete(ctx context.Context, id uint64) error
}

type SectionRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new section repository
func NewRepository(db *gorm.DB) SectionRepository {
	return &SectionRepositoryImpl{db: db}
}

func (r *SectionRepositoryImpl) Create(ctx context.Context, section *Section) error {
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *SectionRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Section, error) {
	var sec Section
	err := r.db.WithContext(ctx).First(&sec, id).Error
	if err != nil {
		return nil, err
	}
	return &sec, nil
}

func (r *SectionRepositoryImpl) ListByPortfolio(ctx context.Context, portfolioID uint64, includeHidden bool) ([]Section, error) {
	query := r.db.WithContext(ctx).Where("portfolio_id = ?", portfolioID)
	if !includeHidden {
		query = query.Where("is_visible = ?", true)
	}

	var sections []Section
	err := query.Order("sort_order ASC").Find(&sections).Error
	return sections, err
}

// MaxOrder returns the highest sort order in a portfolio, zero when empty.
// Orders are never renumbered on delete; gaps are fine.
func (r *SectionRepositoryImpl) MaxOrder(ctx context.Context, portfolioID uint64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&Section{}).
		Where("portfolio_id = ?", portfolioID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *SectionRepositoryImpl) Update(ctx context.Context, section *Section) error {
	section.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *SectionRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Section{}, id).Error
}
