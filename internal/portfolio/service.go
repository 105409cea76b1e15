package portfolio

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"portfolio-builder/internal/errors"
	"portfolio-builder/internal/utils"
	"portfolio-builder/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreatePortfolio(ctx context.Context, userID uint64, portfolio *Portfolio) error
	GetPortfolio(ctx context.Context, id uint64, viewerID uint64) (*Portfolio, error)
	GetUserPortfolios(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedPortfolios, error)
	UpdatePortfolio(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Portfolio, error)
	DeletePortfolio(ctx context.Context, id uint64, userID uint64) error
	GetPublicBySlug(ctx context.Context, slug string) (*PublicPortfolio, error)
}

// SectionProvider is the slice of the section service the public page needs.
// Declared here to keep the packages from importing each other.
type SectionProvider interface {
	VisibleSections(ctx context.Context, portfolioID uint64) ([]PublicSection, error)
}

type ProjectProvider interface {
	PortfolioProjects(ctx context.Context, portfolioID uint64) ([]PublicProject, error)
}

type OwnerProvider interface {
	OwnerInfo(ctx context.Context, userID uint64) (name, username string, err error)
}

type DefaultService struct {
	repository PortfolioRepository
	sections   SectionProvider
	projects   ProjectProvider
	owners     OwnerProvider
	cache      *redis.Cache
}

func NewService(
	repository PortfolioRepository,
	sections SectionProvider,
	projects ProjectProvider,
	owners OwnerProvider,
	cache *redis.Cache,
) Service {
	return &DefaultService{
		repository: repository,
		sections:   sections,
		projects:   projects,
		owners:     owners,
		cache:      cache,
	}
}

// CreatePortfolio assigns a unique slug derived from the title and persists
// the record. The slug probe is sequential: base, base-1, base-2, ... and
// each candidate is checked before the next is tried, so the chosen suffix
// is deterministic. The unique index on slug remains the real guarantee
// under concurrent creation.
func (s *DefaultService) CreatePortfolio(ctx context.Context, userID uint64, portfolio *Portfolio) error {
	if portfolio.Title == "" {
		return errors.BadRequest("Title is required", nil)
	}

	slug, err := s.uniqueSlug(ctx, portfolio.Title)
	if err != nil {
		return err
	}

	portfolio.UserID = userID
	portfolio.Slug = slug
	return s.repository.Create(ctx, portfolio)
}

func (s *DefaultService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "portfolio"
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := s.repository.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// GetPortfolio returns a portfolio; drafts are only visible to their owner
func (s *DefaultService) GetPortfolio(ctx context.Context, id uint64, viewerID uint64) (*Portfolio, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Portfolio not found", err)
		}
		return nil, err
	}

	if !p.IsPublished && p.UserID != viewerID {
		return nil, errors.Unauthorized("This portfolio is not published", nil)
	}

	return p, nil
}

type PaginatedPortfolios struct {
	Data []Portfolio `json:"data"`
	Meta ListMeta    `json:"meta"`
}

func (s *DefaultService) GetUserPortfolios(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedPortfolios, error) {
	portfolios, meta, err := s.repository.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PaginatedPortfolios{Data: portfolios, Meta: meta}, nil
}

// UpdatePatch carries only the fields the caller wants changed
type UpdatePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Theme       *string `json:"theme"`
	IsPublished *bool   `json:"is_published"`
}

// UpdatePortfolio applies a partial patch. The slug is assigned at creation
// and stays stable across title edits so published links keep working.
func (s *DefaultService) UpdatePortfolio(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Portfolio, error) {
	p, err := s.ownedPortfolio(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errors.BadRequest("Title cannot be empty", nil)
		}
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.IsPublished != nil {
		p.IsPublished = *patch.IsPublished
	}

	if err := s.repository.Update(ctx, p); err != nil {
		return nil, err
	}

	s.bumpPublicVersion(ctx, p.Slug)
	return p, nil
}

func (s *DefaultService) DeletePortfolio(ctx context.Context, id uint64, userID uint64) error {
	p, err := s.ownedPortfolio(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.bumpPublicVersion(ctx, p.Slug)
	return nil
}

func (s *DefaultService) ownedPortfolio(ctx context.Context, id uint64, userID uint64) (*Portfolio, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Portfolio not found", err)
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, errors.Forbidden("You do not own this portfolio", nil)
	}
	return p, nil
}

// PublicSection is the visitor-facing shape of a section
type PublicSection struct {
	ID      uint64 `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content any    `json:"content"`
	Order   int    `json:"order"`
}

type PublicProject struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Order       int    `json:"order"`
}

type PublicPortfolio struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	OwnerName   string          `json:"owner_name"`
	OwnerHandle string          `json:"owner_handle"`
	Sections    []PublicSection `json:"sections"`
	Projects    []PublicProject `json:"projects"`
}

// PublicVersionKey names the data version for one public page. Section,
// project and portfolio mutations bump it so cached pages built on the old
// version stop matching.
func PublicVersionKey(slug string) string {
	return fmt.Sprintf("public:portfolio:%s:version", slug)
}

// GetPublicBySlug serves the published page for visitors, cached per slug.
// The version is embedded in the read key, so a bump from any mutation
// makes the next read miss and rebuild from the database.
func (s *DefaultService) GetPublicBySlug(ctx context.Context, slug string) (*PublicPortfolio, error) {
	v := s.cache.GetVersion(ctx, PublicVersionKey(slug))
	cacheKey := fmt.Sprintf("public:portfolio:%s:v:%d", slug, v)

	var cached PublicPortfolio
	found, _ := s.cache.Get(ctx, cacheKey, &cached)
	if found {
		return &cached, nil
	}

	p, err := s.repository.FindBySlug(ctx, slug)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Portfolio not found", err)
		}
		return nil, err
	}
	if !p.IsPublished {
		return nil, errors.NotFound("Portfolio not found", nil)
	}

	sections, err := s.sections.VisibleSections(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.PortfolioProjects(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	ownerName, ownerHandle, err := s.owners.OwnerInfo(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	result := &PublicPortfolio{
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Theme:       p.Theme,
		OwnerName:   ownerName,
		OwnerHandle: ownerHandle,
		Sections:    sections,
		Projects:    projects,
	}

	go s.cache.Set(context.Background(), cacheKey, result, 10*time.Minute)

	return result, nil
}

func (s *DefaultService) bumpPublicVersion(ctx context.Context, slug string) {
	s.cache.IncrementVersion(ctx, PublicVersionKey(slug))
}
