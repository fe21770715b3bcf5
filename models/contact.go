package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// SelectedSize is a product size the visitor asked about.
type SelectedSize struct {
	Name        string   `bson:"name" json:"name"`
	Price       *float64 `bson:"price,omitempty" json:"price,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
}

type Contact struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Email         string              `bson:"email" json:"email"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Reason        string              `bson:"reason,omitempty" json:"reason,omitempty"`
	Message       string              `bson:"message" json:"message"`
	ProductID     *primitive.ObjectID `bson:"product_id,omitempty" json:"product_id,omitempty"`
	ProductName   string              `bson:"product_name,omitempty" json:"product_name,omitempty"`
	SelectedSizes []SelectedSize      `bson:"selected_sizes,omitempty" json:"selected_sizes,omitempty"`
	Status        ContactStatus       `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// SizeSelections accepts an array of sizes or the same array encoded as a
// JSON string, which is how the public form posts it. Undecodable strings
// decode to an empty selection.
type SizeSelections []SelectedSize

func (s *SizeSelections) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = nil
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" {
			*s = nil
			return nil
		}
		var rows []ProductSizeInput
		if err := json.Unmarshal([]byte(encoded), &rows); err != nil {
			*s = nil
			return nil
		}
		*s = selectionsFrom(rows)
		return nil
	}

	var rows []ProductSizeInput
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("invalid selected sizes: %w", err)
	}
	*s = selectionsFrom(rows)
	return nil
}

func selectionsFrom(rows []ProductSizeInput) SizeSelections {
	out := make(SizeSelections, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		out = append(out, SelectedSize{Name: name, Price: r.Price.Value, Description: strings.TrimSpace(r.Description)})
	}
	return out
}

// ContactSubmission is the public contact form body.
type ContactSubmission struct {
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Reason        string         `json:"reason"`
	Message       string         `json:"message"`
	ProductID     string         `json:"product_id"`
	ProductName   string         `json:"product_name"`
	SelectedSizes SizeSelections `json:"selected_sizes"`
}

// ContactReceipt is returned to the visitor after a submission is stored.
type ContactReceipt struct {
	ID        primitive.ObjectID `json:"id"`
	EmailSent bool               `json:"email_sent"`
	Message   string             `json:"message"`
}
