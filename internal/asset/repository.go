package asset

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	FindByID(ctx context.Context, id uint64) (*Asset, error)
	ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]Asset, int64, error)
	Delete(ctx context.Context, id uint64) error
}

type AssetRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AssetRepository {
	return &AssetRepositoryImpl{db: db}
}

func (r *AssetRepositoryImpl) Create(ctx context.Context, asset *Asset) error {
	now := time.Now().UTC()
	asset.CreatedAt = now
	asset.UpdatedAt = now
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *AssetRepositoryImpl) FindByID(ctx context.Context, id uint64) (*Asset, error) {
	var a Asset
	err := r.db.WithContext(ctx).First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepositoryImpl) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]Asset, int64, error) {
	var assets []Asset
	var total int64

	if err := r.db.WithContext(ctx).Model(&Asset{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return assets, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&assets).Error

	return assets, total, err
}

func (r *AssetRepositoryImpl) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&Asset{}, id).Error
}
