package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// AnnouncementCreateRequest describes the payload for posting an announcement.
type AnnouncementCreateRequest struct {
	Title    string `json:"title" validate:"required,min=2"`
	Content  string `json:"content" validate:"required"`
	Priority int    `json:"priority" validate:"min=0,max=3"`
	IsPinned bool   `json:"is_pinned"`
}

// AnnouncementUpdateRequest carries a partial announcement update.
type AnnouncementUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=2"`
	Content  *string `json:"content"`
	Priority *int    `json:"priority" validate:"omitempty,min=0,max=3"`
	IsPinned *bool   `json:"is_pinned"`
}

// AnnouncementResponse is the serialized representation of an announcement.
type AnnouncementResponse struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Priority   int       `json:"priority"`
	IsPinned   bool      `json:"is_pinned"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AnnouncementListResponse wraps an announcement page.
type AnnouncementListResponse struct {
	Items      []AnnouncementResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
	CacheHit   bool                   `json:"-"`
}

// NewAnnouncementResponse converts a model into a DTO.
func NewAnnouncementResponse(model models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:         model.ID,
		Title:      model.Title,
		Content:    model.Content,
		Priority:   model.Priority,
		IsPinned:   model.IsPinned,
		AuthorID:   model.AuthorID,
		AuthorName: model.Author.FullName,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
