package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a single blog document. CoverImage is a pointer so a post without
// a cover serializes as JSON null rather than an empty string.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Category   string             `bson:"category" json:"category"`
	CoverImage *string            `bson:"coverImage" json:"coverImage"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// The category set is fixed. The store does not enforce it; writers must.
const (
	CategoryPrestasi   = "Prestasi"
	CategoryPengumuman = "Pengumuman"
	CategoryEvent      = "Event"
)

var Categories = []string{CategoryPrestasi, CategoryPengumuman, CategoryEvent}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
