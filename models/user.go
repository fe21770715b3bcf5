package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an administrator account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// DashboardStats summarizes the collections for the admin landing page.
type DashboardStats struct {
	Projects          int64     `json:"projects"`
	PublishedProjects int64     `json:"published_projects"`
	Products          int64     `json:"products"`
	PublishedProducts int64     `json:"published_products"`
	Services          int64     `json:"services"`
	PublishedServices int64     `json:"published_services"`
	Contacts          int64     `json:"contacts"`
	NewContacts       int64     `json:"new_contacts"`
	Media             int64     `json:"media"`
	RecentProjects    []Project `json:"recent_projects"`
	RecentContacts    []Contact `json:"recent_contacts"`
}

// HomeView holds the newest published entries of each content type.
type HomeView struct {
	Projects []Project `json:"projects"`
	Services []Service `json:"services"`
	Products []Product `json:"products"`
}
