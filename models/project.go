package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Slug        string               `bson:"slug" json:"slug"`
	Description string               `bson:"description" json:"description"`
	MainImage   *primitive.ObjectID  `bson:"main_image,omitempty" json:"main_image,omitempty"`
	Gallery     []primitive.ObjectID `bson:"gallery" json:"gallery"`
	Status      Status               `bson:"status" json:"status"`
	Location    string               `bson:"location" json:"location"`
	Date        *time.Time           `bson:"date,omitempty" json:"date,omitempty"`
	Tags        []string             `bson:"tags" json:"tags"`
	SEO         `bson:",inline"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProjectInput is the create/update request body. Tags and gallery accept
// either a comma-joined string or a list.
type ProjectInput struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	MainImage   string     `json:"main_image"`
	Gallery     StringList `json:"gallery"`
	Status      Status     `json:"status"`
	Location    string     `json:"location"`
	Date        string     `json:"date"`
	Tags        StringList `json:"tags"`
	SEOInput
}
