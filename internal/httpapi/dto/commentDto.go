package dto

import (
	"time"

	"reviewhub/internal/httpapi/models"
)

// CreateCommentDTO for posting a comment under a review
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentDTO: partial edit
type UpdateCommentDTO struct {
	Text *string `json:"text"`
}

type CommentResponse struct {
	ID       int64     `json:"id"`
	Author   string    `json:"author"`
	ReviewID int64     `json:"review_id"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

func CommentFromModel(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:       c.ID,
		Author:   c.Author.Username,
		ReviewID: c.ReviewID,
		Text:     c.Text,
		PubDate:  c.PubDate,
	}
}
