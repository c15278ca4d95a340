package course

import (
	"strings"
	"time"
)

type Course struct {
	ID          string    `json:"id" db:"course_id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	ImageURL    *string   `json:"imageUrl" db:"image_url"`
	Price       *float64  `json:"price" db:"price"`
	CategoryID  *string   `json:"categoryId" db:"category_id"`
	IsPublished bool      `json:"isPublished" db:"is_published"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type CourseNew struct {
	Title string `json:"title" validate:"required"`
}

// CourseUp carries a partial update. Nil fields are left untouched.
type CourseUp struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price" validate:"omitempty,finite,gte=0"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
}

// Publish requirements of a course, in reporting order.
const (
	ReqTitle            = "title"
	ReqDescription      = "description"
	ReqImageURL         = "imageUrl"
	ReqCategoryID       = "categoryId"
	ReqPrice            = "price"
	ReqPublishedChapter = "publishedChapter"
)

// Missing returns every publish requirement c does not meet, given the number
// of its chapters that are currently published. An empty result means the
// course may be published.
func Missing(c Course, publishedChapters int) []string {
	var missing []string
	if blank(&c.Title) {
		missing = append(missing, ReqTitle)
	}
	if blank(c.Description) {
		missing = append(missing, ReqDescription)
	}
	if blank(c.ImageURL) {
		missing = append(missing, ReqImageURL)
	}
	if blank(c.CategoryID) {
		missing = append(missing, ReqCategoryID)
	}
	if c.Price == nil {
		missing = append(missing, ReqPrice)
	}
	if publishedChapters < 1 {
		missing = append(missing, ReqPublishedChapter)
	}
	return missing
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
