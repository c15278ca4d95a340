package chapter

import (
	"strings"
	"time"
)

type Chapter struct {
	ID          string    `json:"id" db:"chapter_id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	VideoURL    *string   `json:"videoUrl" db:"video_url"`
	Position    int       `json:"position" db:"position"`
	IsFree      bool      `json:"isFree" db:"is_free"`
	IsPublished bool      `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type ChapterNew struct {
	Title string `json:"title" validate:"required"`
}

// ChapterUp carries a partial update. Description is stored as-is; it is
// editor HTML and is never parsed here.
type ChapterUp struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
	IsFree      *bool   `json:"isFree"`
}

type Reorder struct {
	List []string `json:"list"`
}

const (
	ReqTitle       = "title"
	ReqDescription = "description"
	ReqVideoURL    = "videoUrl"
)

// Missing returns the fields that must be filled before ch can be published.
func Missing(ch Chapter) []string {
	var missing []string
	if strings.TrimSpace(ch.Title) == "" {
		missing = append(missing, ReqTitle)
	}
	if blank(ch.Description) {
		missing = append(missing, ReqDescription)
	}
	if blank(ch.VideoURL) {
		missing = append(missing, ReqVideoURL)
	}
	return missing
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
