package project

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id uint64) (*Project, error)
	ListByPortfolio(ctx context.Context, portfolioID uint64) ([]Project, error)
	MaxOrder(ctx context.Context, portfolioID uint64) (int, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uint64) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Project, error) {
	var p Project
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepositoryImpl) ListByPortfolio(ctx context.Context, portfolioID uint64) ([]Project, error) {
	var projects []Project
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("sort_order ASC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) MaxOrder(ctx context.Context, portfolioID uint64) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&Project{}).
		Where("portfolio_id = ?", portfolioID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *Project) error {
	project.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Project{}, id).Error
}
