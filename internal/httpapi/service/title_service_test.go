package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreRepository) Create(ctx context.Context, g *models.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func newTitleServiceForTest() (TitleService, *MockTitleRepository, *MockCategoryRepository, *MockGenreRepository, *MockReviewRepository) {
	titleRepo := new(MockTitleRepository)
	categoryRepo := new(MockCategoryRepository)
	genreRepo := new(MockGenreRepository)
	reviewRepo := new(MockReviewRepository)
	svc := NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	return svc, titleRepo, categoryRepo, genreRepo, reviewRepo
}

func TestTitleList_AttachesAverageScores(t *testing.T) {
	svc, titleRepo, _, _, reviewRepo := newTitleServiceForTest()
	ctx := context.Background()

	titles := []models.Title{{ID: 1, Name: "First"}, {ID: 2, Name: "Second"}}
	titleRepo.On("List", ctx, repository.TitleFilter{}, 1, 10).
		Return(titles, int64(2), nil)
	reviewRepo.On("AverageScores", []int64{1, 2}).
		Return(map[int64]float64{1: 7.5}, nil)

	page, err := svc.List(ctx, repository.TitleFilter{}, 1, 10)

	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.NotNil(t, page.Data[0].Rating)
	assert.Equal(t, 7.5, *page.Data[0].Rating)
	// no reviews yet, rating stays null
	assert.Nil(t, page.Data[1].Rating)
}

func TestTitleGet_NoReviewsMeansNilRating(t *testing.T) {
	svc, titleRepo, _, _, reviewRepo := newTitleServiceForTest()
	ctx := context.Background()

	titleRepo.On("GetByID", ctx, int64(3)).Return(&models.Title{ID: 3, Name: "Quiet"}, nil)
	reviewRepo.On("AverageScore", int64(3)).Return(nil, nil)

	resp, err := svc.Get(ctx, 3)

	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestTitleGet_NotFound(t *testing.T) {
	svc, titleRepo, _, _, _ := newTitleServiceForTest()
	ctx := context.Background()

	titleRepo.On("GetByID", ctx, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := svc.Get(ctx, 99)

	assert.ErrorIs(t, err, ErrTitleNotFound)
	assert.Nil(t, resp)
}

func TestTitleCreate_Success(t *testing.T) {
	svc, titleRepo, categoryRepo, genreRepo, _ := newTitleServiceForTest()
	ctx := context.Background()

	genreRepo.On("FindBySlugs", ctx, []string{"drama"}).
		Return([]models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}}, nil)
	categoryRepo.On("FindBySlug", ctx, "movie").
		Return(&models.Category{ID: 2, Name: "Movie", Slug: "movie"}, nil)
	titleRepo.On("Create", ctx, mock.AnythingOfType("*models.Title")).Return(nil)

	category := "movie"
	resp, err := svc.Create(ctx, dto.CreateTitleDTO{
		Name:     "New Release",
		Year:     2020,
		Genre:    []string{"drama"},
		Category: &category,
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Release", resp.Name)
	assert.Len(t, resp.Genre, 1)
	assert.Equal(t, "movie", resp.Category.Slug)
	titleRepo.AssertExpectations(t)
}

func TestTitleCreate_YearInFuture(t *testing.T) {
	svc, _, _, _, _ := newTitleServiceForTest()

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:  "Time Machine",
		Year:  time.Now().Year() + 1,
		Genre: []string{"scifi"},
	})

	assert.ErrorIs(t, err, ErrYearInFuture)
	assert.Nil(t, resp)
}

func TestTitleCreate_UnknownGenre(t *testing.T) {
	svc, _, _, genreRepo, _ := newTitleServiceForTest()
	ctx := context.Background()

	genreRepo.On("FindBySlugs", ctx, []string{"drama", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)

	resp, err := svc.Create(ctx, dto.CreateTitleDTO{
		Name:  "Partial",
		Year:  2000,
		Genre: []string{"drama", "nope"},
	})

	assert.ErrorIs(t, err, ErrUnknownGenre)
	assert.Nil(t, resp)
}

func TestTitleCreate_UnknownCategory(t *testing.T) {
	svc, _, categoryRepo, genreRepo, _ := newTitleServiceForTest()
	ctx := context.Background()

	genreRepo.On("FindBySlugs", ctx, []string{"drama"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)
	categoryRepo.On("FindBySlug", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound)

	category := "ghost"
	resp, err := svc.Create(ctx, dto.CreateTitleDTO{
		Name:     "Orphan",
		Year:     2000,
		Genre:    []string{"drama"},
		Category: &category,
	})

	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Nil(t, resp)
}

func TestTitleUpdate_ReplacesGenres(t *testing.T) {
	svc, titleRepo, _, genreRepo, reviewRepo := newTitleServiceForTest()
	ctx := context.Background()

	existing := &models.Title{ID: 4, Name: "Old", Year: 1999}
	titleRepo.On("GetByID", ctx, int64(4)).Return(existing, nil)
	reviewRepo.On("AverageScore", int64(4)).Return(nil, nil)
	titleRepo.On("Update", ctx, mock.AnythingOfType("*models.Title")).Return(nil)

	newGenres := []models.Genre{{ID: 5, Name: "Horror", Slug: "horror"}}
	genreRepo.On("FindBySlugs", ctx, []string{"horror"}).Return(newGenres, nil)
	titleRepo.On("ReplaceGenres", ctx, mock.AnythingOfType("*models.Title"), newGenres).Return(nil)

	resp, err := svc.Update(ctx, 4, dto.UpdateTitleDTO{Genre: []string{"horror"}})

	assert.NoError(t, err)
	assert.Len(t, resp.Genre, 1)
	assert.Equal(t, "horror", resp.Genre[0].Slug)
	titleRepo.AssertExpectations(t)
}

func TestTitleDelete_NotFound(t *testing.T) {
	svc, titleRepo, _, _, _ := newTitleServiceForTest()
	ctx := context.Background()

	titleRepo.On("Delete", ctx, int64(77)).Return(gorm.ErrRecordNotFound)

	err := svc.Delete(ctx, 77)

	assert.ErrorIs(t, err, ErrTitleNotFound)
}
