package portfolio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-builder/internal/errors"
	"portfolio-builder/redis"
)

// fakeRepository keeps portfolios in memory, enough to exercise the slug
// probe and ownership checks without a database.
type fakeRepository struct {
	nextID     uint64
	portfolios map[uint64]*Portfolio
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1, portfolios: map[uint64]*Portfolio{}}
}

func (r *fakeRepository) Create(ctx context.Context, p *Portfolio) error {
	p.ID = r.nextID
	r.nextID++
	stored := *p
	r.portfolios[p.ID] = &stored
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id uint64) (*Portfolio, error) {
	p, ok := r.portfolios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *p
	return &found, nil
}

func (r *fakeRepository) FindBySlug(ctx context.Context, slug string) (*Portfolio, error) {
	for _, p := range r.portfolios {
		if p.Slug == slug {
			found := *p
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepository) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]Portfolio, ListMeta, error) {
	var out []Portfolio
	for _, p := range r.portfolios {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, ListMeta{Total: int64(len(out)), CurrentPage: page, PerPage: pageSize}, nil
}

func (r *fakeRepository) Update(ctx context.Context, p *Portfolio) error {
	if _, ok := r.portfolios[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	r.portfolios[p.ID] = &stored
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id uint64) error {
	delete(r.portfolios, id)
	return nil
}

func (r *fakeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, p := range r.portfolios {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type stubSections struct{ sections []PublicSection }

func (s stubSections) VisibleSections(ctx context.Context, portfolioID uint64) ([]PublicSection, error) {
	return s.sections, nil
}

type stubProjects struct{ projects []PublicProject }

func (s stubProjects) PortfolioProjects(ctx context.Context, portfolioID uint64) ([]PublicProject, error) {
	return s.projects, nil
}

type stubOwners struct{ name, handle string }

func (s stubOwners) OwnerInfo(ctx context.Context, userID uint64) (string, string, error) {
	return s.name, s.handle, nil
}

func newTestService(repo PortfolioRepository) Service {
	return NewService(repo, stubSections{}, stubProjects{}, stubOwners{name: "Jane", handle: "jane"}, redis.NewCache())
}

func TestCreatePortfolioSlugFromTitle(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	p := &Portfolio{Title: "My Portfolio!"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))
	assert.Equal(t, "my-portfolio", p.Slug)

	second := &Portfolio{Title: "My Portfolio!"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, second))
	assert.Equal(t, "my-portfolio-1", second.Slug)
}

func TestCreatePortfolioSlugProbeSequence(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	want := []string{"site", "site-1", "site-2", "site-3", "site-4"}
	for i, expected := range want {
		p := &Portfolio{Title: "Site"}
		require.NoError(t, service.CreatePortfolio(context.Background(), 1, p), "creation %d", i)
		assert.Equal(t, expected, p.Slug)
	}
}

func TestCreatePortfolioEmptyTitle(t *testing.T) {
	service := newTestService(newFakeRepository())

	err := service.CreatePortfolio(context.Background(), 1, &Portfolio{})
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)
}

func TestCreatePortfolioSymbolOnlyTitleFallsBack(t *testing.T) {
	service := newTestService(newFakeRepository())

	p := &Portfolio{Title: "!!!"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))
	assert.Equal(t, "portfolio", p.Slug)
}

func TestGetPortfolioDraftGating(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	draft := &Portfolio{Title: "Draft"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, draft))

	// the owner sees their draft
	got, err := service.GetPortfolio(context.Background(), draft.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	// other viewers do not
	_, err = service.GetPortfolio(context.Background(), draft.ID, 2)
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
}

func TestUpdatePortfolioKeepsSlugStable(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	p := &Portfolio{Title: "My Portfolio"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))
	require.Equal(t, "my-portfolio", p.Slug)

	newTitle := "Totally Renamed"
	updated, err := service.UpdatePortfolio(context.Background(), p.ID, 1, UpdatePatch{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "Totally Renamed", updated.Title)
	assert.Equal(t, "my-portfolio", updated.Slug)
}

func TestUpdatePortfolioOwnershipEnforced(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	p := &Portfolio{Title: "Mine"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))

	title := "Hijacked"
	_, err := service.UpdatePortfolio(context.Background(), p.ID, 2, UpdatePatch{Title: &title})
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.Status)
}

func TestGetPublicBySlugOnlyServesPublished(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo,
		stubSections{sections: []PublicSection{{ID: 1, Type: "hero", Title: "Hi", Order: 1}}},
		stubProjects{projects: []PublicProject{{ID: 1, Title: "App", Order: 1}}},
		stubOwners{name: "Jane Doe", handle: "jane"},
		redis.NewCache(),
	)

	p := &Portfolio{Title: "Jane's Work"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 7, p))

	// drafts are invisible to visitors
	_, err := service.GetPublicBySlug(context.Background(), p.Slug)
	require.Error(t, err)

	published := true
	_, err = service.UpdatePortfolio(context.Background(), p.ID, 7, UpdatePatch{IsPublished: &published})
	require.NoError(t, err)

	page, err := service.GetPublicBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", page.OwnerName)
	assert.Equal(t, "jane", page.OwnerHandle)
	require.Len(t, page.Sections, 1)
	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Hi", page.Sections[0].Title)
}

func TestGetPublicBySlugUnknown(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.GetPublicBySlug(context.Background(), "nobody")
	require.Error(t, err)
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
}

func TestDeletePortfolio(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	p := &Portfolio{Title: "Ephemeral"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))

	require.NoError(t, service.DeletePortfolio(context.Background(), p.ID, 1))
	_, err := service.GetPortfolio(context.Background(), p.ID, 1)
	require.Error(t, err)
}

func TestSlugCollisionAcrossDifferentTitles(t *testing.T) {
	repo := newFakeRepository()
	service := newTestService(repo)

	a := &Portfolio{Title: "Hello World"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, a))

	// different punctuation, same normalized base
	b := &Portfolio{Title: "Hello, World!!!"}
	require.NoError(t, service.CreatePortfolio(context.Background(), 2, b))

	assert.Equal(t, "hello-world", a.Slug)
	assert.Equal(t, "hello-world-1", b.Slug)
	assert.NotEqual(t, a.Slug, b.Slug, fmt.Sprintf("slugs must differ: %s vs %s", a.Slug, b.Slug))
}

func TestGetPublicBySlugServesFreshAfterMutation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	prev := redis.RedisClient
	redis.RedisClient = redisLib.NewClient(&redisLib.Options{Addr: mr.Addr()})
	defer func() { redis.RedisClient = prev }()

	repo := newFakeRepository()
	service := newTestService(repo)

	desc := "before"
	p := &Portfolio{Title: "Cached Site", IsPublished: true, Description: desc}
	require.NoError(t, service.CreatePortfolio(context.Background(), 1, p))

	// Seed the cache at the current version with a stale rendering of the page.
	cache := redis.NewCache()
	v := cache.GetVersion(context.Background(), PublicVersionKey(p.Slug))
	staleKey := fmt.Sprintf("public:portfolio:%s:v:%d", p.Slug, v)
	cache.Set(context.Background(), staleKey, PublicPortfolio{
		Title:       p.Title,
		Slug:        p.Slug,
		Description: "before",
	}, time.Minute)

	got, err := service.GetPublicBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Description)

	// An owner edit bumps the version, so the next read must rebuild.
	after := "after"
	_, err = service.UpdatePortfolio(context.Background(), p.ID, 1, UpdatePatch{Description: &after})
	require.NoError(t, err)

	got, err = service.GetPublicBySlug(context.Background(), p.Slug)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Description)
}
