package dto

import "reviewhub/internal/httpapi/models"

// CreateTitleDTO accepts genre and category by slug on write.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=150"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"required,min=1,dive,max=50"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleDTO: partial update, nil fields are left untouched
type UpdateTitleDTO struct {
	Name        *string  `json:"name" binding:"omitempty,max=150"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,min=1,dive,max=50"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
}

// TitleResponse serializes genre and category as nested objects on read and
// carries the derived average review score.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
	Rating      *float64          `json:"rating"`
}

func TitleFromModel(t *models.Title) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}

	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}

	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Genre:       genres,
		Category:    category,
		Rating:      t.Rating,
	}
}
