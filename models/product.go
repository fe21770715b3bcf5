package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductSize struct {
	Name        string   `bson:"name" json:"name"`
	Price       *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
}

type Product struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                string               `bson:"name" json:"name"`
	Slug                string               `bson:"slug" json:"slug"`
	Description         string               `bson:"description" json:"description"`
	Price               *float64             `bson:"price,omitempty" json:"price,omitempty"`
	StartingAtPrice     *float64             `bson:"starting_at_price,omitempty" json:"starting_at_price,omitempty"`
	Manufacturer        string               `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Materials           string               `bson:"materials,omitempty" json:"materials,omitempty"`
	SaltwaterCompatible bool                 `bson:"saltwater_compatible" json:"saltwater_compatible"`
	IsTaxable           bool                 `bson:"is_taxable" json:"is_taxable"`
	Sizes               []ProductSize        `bson:"sizes" json:"sizes"`
	Status              Status               `bson:"status" json:"status"`
	Featured            bool                 `bson:"featured" json:"featured"`
	MainImage           *primitive.ObjectID  `bson:"main_image,omitempty" json:"main_image,omitempty"`
	Gallery             []primitive.ObjectID `bson:"gallery" json:"gallery"`
	SEO                 `bson:",inline"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductSizeInput is one size row as submitted by the admin form.
type ProductSizeInput struct {
	Name        string        `json:"name"`
	Price       OptionalFloat `json:"price"`
	Description string        `json:"description"`
}

// ProductSizeList accepts an array of size rows or an object keyed by row
// index ({"0": {...}, "1": {...}}), which is how indexed form fields arrive.
// Rows without a name are dropped.
type ProductSizeList []ProductSize

func (l *ProductSizeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	var rows []ProductSizeInput
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("invalid sizes: %w", err)
		}
	case '{':
		var keyed map[string]ProductSizeInput
		if err := json.Unmarshal(data, &keyed); err != nil {
			return fmt.Errorf("invalid sizes: %w", err)
		}
		for _, k := range sortedFormKeys(keyed) {
			rows = append(rows, keyed[k])
		}
	default:
		return fmt.Errorf("sizes must be an array or an object")
	}

	out := make(ProductSizeList, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		out = append(out, ProductSize{
			Name:        name,
			Price:       r.Price.Value,
			Description: strings.TrimSpace(r.Description),
		})
	}
	*l = out
	return nil
}

type ProductInput struct {
	Name                string          `json:"name"`
	Slug                string          `json:"slug"`
	Description         string          `json:"description"`
	Price               OptionalFloat   `json:"price"`
	StartingAtPrice     OptionalFloat   `json:"starting_at_price"`
	Manufacturer        string          `json:"manufacturer"`
	Materials           string          `json:"materials"`
	SaltwaterCompatible Flag            `json:"saltwater_compatible"`
	IsTaxable           Flag            `json:"is_taxable"`
	Sizes               ProductSizeList `json:"sizes"`
	Status              Status          `json:"status"`
	Featured            Flag            `json:"featured"`
	MainImage           string          `json:"main_image"`
	Gallery             StringList      `json:"gallery"`
	SEOInput
}
