package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	BasePrice   *float64            `bson:"base_price,omitempty" json:"base_price,omitempty"`
	Icon        string              `bson:"icon" json:"icon"`
	MainImage   *primitive.ObjectID `bson:"main_image,omitempty" json:"main_image,omitempty"`
	Status      Status              `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// ServiceInput is the create/update request body. A blank base price clears it.
type ServiceInput struct {
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	BasePrice   OptionalFloat `json:"base_price"`
	Icon        string        `json:"icon"`
	MainImage   string        `json:"main_image"`
	Status      Status        `json:"status"`
}
