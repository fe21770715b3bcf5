package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the publication state shared by projects, products and services.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// SEO holds page metadata for public detail pages.
type SEO struct {
	MetaTitle       string              `bson:"meta_title,omitempty" json:"meta_title,omitempty"`
	MetaDescription string              `bson:"meta_description,omitempty" json:"meta_description,omitempty"`
	Keywords        []string            `bson:"keywords,omitempty" json:"keywords,omitempty"`
	OGImage         *primitive.ObjectID `bson:"og_image,omitempty" json:"og_image,omitempty"`
}

// SEOInput is the request shape for SEO fields.
type SEOInput struct {
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	Keywords        StringList `json:"keywords"`
	OGImage         string     `json:"og_image"`
}

// PageSEO is the resolved metadata rendered into a public page head.
type PageSEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image,omitempty"`
	URL         string `json:"url"`
}
