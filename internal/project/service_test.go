package project

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-builder/internal/portfolio"
	"portfolio-builder/redis"
)

type fakeProjectRepository struct {
	nextID   uint64
	projects map[uint64]*Project
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{nextID: 1, projects: map[uint64]*Project{}}
}

func (r *fakeProjectRepository) Create(ctx context.Context, p *Project) error {
	p.ID = r.nextID
	r.nextID++
	stored := *p
	r.projects[p.ID] = &stored
	return nil
}

func (r *fakeProjectRepository) FindByID(ctx context.Context, id uint64) (*Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *p
	return &found, nil
}

func (r *fakeProjectRepository) ListByPortfolio(ctx context.Context, portfolioID uint64) ([]Project, error) {
	var out []Project
	for _, p := range r.projects {
		if p.PortfolioID == portfolioID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepository) MaxOrder(ctx context.Context, portfolioID uint64) (int, error) {
	max := 0
	for _, p := range r.projects {
		if p.PortfolioID == portfolioID && p.Order > max {
			max = p.Order
		}
	}
	return max, nil
}

func (r *fakeProjectRepository) Update(ctx context.Context, p *Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	r.projects[p.ID] = &stored
	return nil
}

func (r *fakeProjectRepository) Delete(ctx context.Context, id uint64) error {
	delete(r.projects, id)
	return nil
}

type singlePortfolioRepository struct {
	portfolio portfolio.Portfolio
}

func (r *singlePortfolioRepository) Create(ctx context.Context, p *portfolio.Portfolio) error {
	return nil
}

func (r *singlePortfolioRepository) FindByID(ctx context.Context, id uint64) (*portfolio.Portfolio, error) {
	if id != r.portfolio.ID {
		return nil, gorm.ErrRecordNotFound
	}
	found := r.portfolio
	return &found, nil
}

func (r *singlePortfolioRepository) FindBySlug(ctx context.Context, slug string) (*portfolio.Portfolio, error) {
	if slug != r.portfolio.Slug {
		return nil, gorm.ErrRecordNotFound
	}
	found := r.portfolio
	return &found, nil
}

func (r *singlePortfolioRepository) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]portfolio.Portfolio, portfolio.ListMeta, error) {
	return nil, portfolio.ListMeta{}, nil
}

func (r *singlePortfolioRepository) Update(ctx context.Context, p *portfolio.Portfolio) error {
	return nil
}

func (r *singlePortfolioRepository) Delete(ctx context.Context, id uint64) error {
	return nil
}

func (r *singlePortfolioRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slug == r.portfolio.Slug, nil
}

func TestProjectMutationsBumpPublicVersion(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	prev := redis.RedisClient
	redis.RedisClient = redisLib.NewClient(&redisLib.Options{Addr: mr.Addr()})
	defer func() { redis.RedisClient = prev }()

	cache := redis.NewCache()
	portRepo := &singlePortfolioRepository{portfolio: portfolio.Portfolio{
		ID: 1, UserID: 7, Slug: "site", IsPublished: true,
	}}
	service := NewService(newFakeProjectRepository(), portRepo, cache)

	ctx := context.Background()
	versionKey := portfolio.PublicVersionKey("site")
	require.Equal(t, int64(0), cache.GetVersion(ctx, versionKey))

	p := &Project{Title: "CLI tool"}
	require.NoError(t, service.CreateProject(ctx, 1, 7, p))
	assert.Equal(t, int64(1), cache.GetVersion(ctx, versionKey))

	desc := "A small CLI"
	_, err = service.UpdateProject(ctx, p.ID, 7, UpdatePatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cache.GetVersion(ctx, versionKey))

	require.NoError(t, service.DeleteProject(ctx, p.ID, 7))
	assert.Equal(t, int64(3), cache.GetVersion(ctx, versionKey))
}
