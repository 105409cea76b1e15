package section

import (
	"context"
	defError "errors"
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-builder/internal/errors"
	"portfolio-builder/internal/portfolio"
	"portfolio-builder/redis"

	"gorm.io/gorm"
)

type Service interface {
	CreateSection(ctx context.Context, portfolioID uint64, userID uint64, input CreateInput) (*Section, error)
	ListSections(ctx context.Context, portfolioID uint64, viewerID uint64, includeHidden bool) ([]Section, error)
	UpdateSection(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Section, error)
	DeleteSection(ctx context.Context, id uint64, userID uint64) error
	VisibleSections(ctx context.Context, portfolioID uint64) ([]portfolio.PublicSection, error)
}

type DefaultService struct {
	repository SectionRepository
	portfolios portfolio.PortfolioRepository
	cache      *redis.Cache
}

func NewService(repository SectionRepository, portfolios portfolio.PortfolioRepository, cache *redis.Cache) Service {
	return &DefaultService{
		repository: repository,
		portfolios: portfolios,
		cache:      cache,
	}
}

type CreateInput struct {
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	Order     *int            `json:"order"`
	IsVisible *bool           `json:"is_visible"`
}

// CreateSection validates the type, checks ownership and assigns the next
// order slot when none is given
func (s *DefaultService) CreateSection(ctx context.Context, portfolioID uint64, userID uint64, input CreateInput) (*Section, error) {
	if input.Type == "" {
		return nil, errors.BadRequest("Section type is required", nil)
	}
	if !IsValidType(input.Type) {
		return nil, errors.BadRequest(
			fmt.Sprintf("Invalid section type. Must be one of: %s", strings.Join(ValidTypes, ", ")),
			nil,
		)
	}

	p, err := s.ownedPortfolio(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	} else {
		max, err := s.repository.MaxOrder(ctx, portfolioID)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	visible := true
	if input.IsVisible != nil {
		visible = *input.IsVisible
	}

	sec := &Section{
		PortfolioID: portfolioID,
		Type:        input.Type,
		Title:       input.Title,
		Content:     ParseContent(input.Content).Raw(),
		Order:       order,
		IsVisible:   visible,
	}

	if err := s.repository.Create(ctx, sec); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(p.Slug))
	return sec, nil
}

// ListSections returns visible sections for anyone; hidden ones only for
// the owner when includeHidden is requested
func (s *DefaultService) ListSections(ctx context.Context, portfolioID uint64, viewerID uint64, includeHidden bool) ([]Section, error) {
	p, err := s.findPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	if includeHidden && p.UserID != viewerID {
		return nil, errors.Unauthorized("Only the owner can view hidden sections", nil)
	}

	return s.repository.ListByPortfolio(ctx, portfolioID, includeHidden)
}

type UpdatePatch struct {
	Type      *string         `json:"type"`
	Title     *string         `json:"title"`
	Content   json.RawMessage `json:"content"`
	Order     *int            `json:"order"`
	IsVisible *bool           `json:"is_visible"`
}

func (s *DefaultService) UpdateSection(ctx context.Context, id uint64, userID uint64, patch UpdatePatch) (*Section, error) {
	sec, p, err := s.ownedSection(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		if !IsValidType(*patch.Type) {
			return nil, errors.BadRequest("Invalid section type", nil)
		}
		sec.Type = *patch.Type
	}
	if patch.Title != nil {
		sec.Title = *patch.Title
	}
	if patch.Content != nil {
		sec.Content = ParseContent(patch.Content).Raw()
	}
	if patch.Order != nil {
		sec.Order = *patch.Order
	}
	if patch.IsVisible != nil {
		sec.IsVisible = *patch.IsVisible
	}

	if err := s.repository.Update(ctx, sec); err != nil {
		return nil, err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(p.Slug))
	return sec, nil
}

func (s *DefaultService) DeleteSection(ctx context.Context, id uint64, userID uint64) error {
	_, p, err := s.ownedSection(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.IncrementVersion(ctx, portfolio.PublicVersionKey(p.Slug))
	return nil
}

// VisibleSections feeds the public portfolio page
func (s *DefaultService) VisibleSections(ctx context.Context, portfolioID uint64) ([]portfolio.PublicSection, error) {
	sections, err := s.repository.ListByPortfolio(ctx, portfolioID, false)
	if err != nil {
		return nil, err
	}

	result := make([]portfolio.PublicSection, 0, len(sections))
	for _, sec := range sections {
		result = append(result, portfolio.PublicSection{
			ID:      sec.ID,
			Type:    sec.Type,
			Title:   sec.Title,
			Content: ParseContent(sec.Content),
			Order:   sec.Order,
		})
	}
	return result, nil
}

func (s *DefaultService) findPortfolio(ctx context.Context, id uint64) (*portfolio.Portfolio, error) {
	p, err := s.portfolios.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Portfolio not found", err)
		}
		return nil, err
	}
	return p, nil
}

func (s *DefaultService) ownedPortfolio(ctx context.Context, id uint64, userID uint64) (*portfolio.Portfolio, error) {
	p, err := s.findPortfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errors.Forbidden("You do not own this portfolio", nil)
	}
	return p, nil
}

func (s *DefaultService) ownedSection(ctx context.Context, id uint64, userID uint64) (*Section, *portfolio.Portfolio, error) {
	sec, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.NotFound("Section not found", err)
		}
		return nil, nil, err
	}

	p, err := s.ownedPortfolio(ctx, sec.PortfolioID, userID)
	if err != nil {
		return nil, nil, err
	}
	return sec, p, nil
}
