package project

import (
	"context"
	defError "errors"

	"portfolio-builder/internal/errors"
	"portfolio-builder/internal/portfolio"
	"portfolio-builder/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreateProject(ctx context.Context, portfolioID uint64, userID uint64, project *Project) error
	ListProjects(ctx context.Context, portfolioID uint64) ([]Project, error)
	UpdateProject(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Project, error)
	DeleteProject(ctx context.Context, id uint64, userID uint64) error
	PortfolioProjects(ctx context.Context, portfolioID uint64) ([]portfolio.PublicProject, error)
}

type DefaultService struct {
	repository ProjectRepository
	portfolios portfolio.PortfolioRepository
	cache      *redis.Cache
}

func NewService(repository ProjectRepository, portfolios portfolio.PortfolioRepository, cache *redis.Cache) Service {
	return &DefaultService{repository: repository, portfolios: portfolios, cache: cache}
}

func (s *DefaultService) CreateProject(ctx context.Context, portfolioID uint64, userID uint64, project *Project) error {
	if project.Title == "" {
		return errors.BadRequest("Project title is required", nil)
	}

	p, err := s.checkOwnership(ctx, portfolioID, userID)
	if err != nil {
		return err
	}

	if project.Order == 0 {
		max, err := s.repository.MaxOrder(ctx, portfolioID)
		if err != nil {
			return err
		}
		project.Order = max + 1
	}

	project.PortfolioID = portfolioID
	if err := s.repository.Create(ctx, project); err != nil {
		return err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(p.Slug))
	return nil
}

func (s *DefaultService) ListProjects(ctx context.Context, portfolioID uint64) ([]Project, error) {
	return s.repository.ListByPortfolio(ctx, portfolioID)
}

type UpdatePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	ImageURL    *string `json:"image_url"`
	Order       *int    `json:"order"`
}

func (s *DefaultService) UpdateProject(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Project, error) {
	p, owner, err := s.ownedProject(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, errors.BadRequest("Project title cannot be empty", nil)
		}
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Link != nil {
		p.Link = *patch.Link
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Order != nil {
		p.Order = *patch.Order
	}

	if err := s.repository.Update(ctx, p); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(owner.Slug))
	return p, nil
}

func (s *DefaultService) DeleteProject(ctx context.Context, id uint64, userID uint64) error {
	_, owner, err := s.ownedProject(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(owner.Slug))
	return nil
}

// PortfolioProjects feeds the public portfolio page
func (s *DefaultService) PortfolioProjects(ctx context.Context, portfolioID uint64) ([]portfolio.PublicProject, error) {
	projects, err := s.repository.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	result := make([]portfolio.PublicProject, 0, len(projects))
	for _, p := range projects {
		result = append(result, portfolio.PublicProject{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Link:        p.Link,
			ImageURL:    p.ImageURL,
			Order:       p.Order,
		})
	}
	return result, nil
}

func (s *DefaultService) checkOwnership(ctx context.Context, portfolioID uint64, userID uint64) (*portfolio.Portfolio, error) {
	p, err := s.portfolios.FindByID(ctx, portfolioID)
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

func (s *DefaultService) ownedProject(ctx context.Context, id uint64, userID uint64) (*Project, *portfolio.Portfolio, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.NotFound("Project not found", err)
		}
		return nil, nil, err
	}

	owner, err := s.checkOwnership(ctx, p.PortfolioID, userID)
	if err != nil {
		return nil, nil, err
	}
	return p, owner, nil
}
