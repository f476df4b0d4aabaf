package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidSlug      = errors.New("slug may only contain letters, numbers, hyphens and underscores")
	ErrSlugTaken        = errors.New("slug already in use")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error)
	Create(ctx context.Context, req dto.CreateCategoryDTO) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		responses = append(responses, dto.CategoryFromModel(c))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*models.Category, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrInvalidSlug
	}
	if _, err := s.repo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, ErrSlugTaken
	}

	category := &models.Category{
		Name: strings.TrimSpace(req.Name),
		Slug: req.Slug,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
