package asset

import (
	"context"
	defError "errors"
	"io"

	"portfolio-builder/internal/errors"
	"portfolio-builder/internal/worker"

	"gorm.io/gorm"
)

// 10 MB cap per upload, matching the frontend's client-side limit
const MaxUploadSize = 10 << 20

type Service interface {
	Upload(ctx context.Context, userID uint64, filename, contentType string, size int64, reader io.Reader) (*Asset, error)
	ListAssets(ctx context.Context, userID uint64, page, pageSize int) ([]Asset, int64, error)
	DeleteAsset(ctx context.Context, id uint64, userID uint64) error
}

type DefaultService struct {
	repository AssetRepository
	storage    ObjectStorage
	pool       *worker.Pool
}

func NewService(repository AssetRepository, storage ObjectStorage, pool *worker.Pool) Service {
	return &DefaultService{
		repository: repository,
		storage:    storage,
		pool:       pool,
	}
}

// Upload streams the file to object storage first, then records the row.
// A failed row insert leaves an orphan object; that is cheaper to tolerate
// than a row pointing at nothing.
func (s *DefaultService) Upload(ctx context.Context, userID uint64, filename, contentType string, size int64, reader io.Reader) (*Asset, error) {
	if size <= 0 {
		return nil, errors.BadRequest("Empty upload", nil)
	}
	if size > MaxUploadSize {
		return nil, errors.BadRequest("File too large", nil)
	}

	key := ObjectKey("uploads", filename)
	url, err := s.storage.Put(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, errors.Internal(err)
	}

	a := &Asset{
		UserID:      userID,
		StorageKey:  key,
		URL:         url,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}

	if err := s.repository.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *DefaultService) ListAssets(ctx context.Context, userID uint64, page, pageSize int) ([]Asset, int64, error) {
	return s.repository.ListByUserID(ctx, userID, page, pageSize)
}

// DeleteAsset removes the row, then hands the object removal to the worker
// pool so a slow storage backend never blocks the request
func (s *DefaultService) DeleteAsset(ctx context.Context, id uint64, userID uint64) error {
	a, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Asset not found", err)
		}
		return err
	}

	if a.UserID != userID {
		return errors.Forbidden("You do not own this asset", nil)
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	key := a.StorageKey
	s.pool.Submit(func(ctx context.Context) error {
		return s.storage.Remove(ctx, key)
	})

	return nil
}
