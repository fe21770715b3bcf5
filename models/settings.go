package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettingsKey is the key of the single settings document.
const SettingsKey = "site"

type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeOcean   Theme = "ocean"
	ThemeSky     Theme = "sky"
	ThemeNavy    Theme = "navy"
	ThemeRoyal   Theme = "royal"
	ThemeTeal    Theme = "teal"
	ThemeCustom  Theme = "custom"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeDefault, ThemeOcean, ThemeSky, ThemeNavy, ThemeRoyal, ThemeTeal, ThemeCustom:
		return true
	}
	return false
}

type HeroHeight string

const (
	HeroSmall  HeroHeight = "small"
	HeroMedium HeroHeight = "medium"
	HeroLarge  HeroHeight = "large"
	HeroFull   HeroHeight = "full"
)

func (h HeroHeight) Valid() bool {
	switch h {
	case HeroSmall, HeroMedium, HeroLarge, HeroFull:
		return true
	}
	return false
}

// Palette is the set of theme colors written into the stylesheet.
type Palette struct {
	Primary   string `bson:"primary" json:"primary"`
	Secondary string `bson:"secondary" json:"secondary"`
	Success   string `bson:"success" json:"success"`
	Danger    string `bson:"danger" json:"danger"`
	Warning   string `bson:"warning" json:"warning"`
	Info      string `bson:"info" json:"info"`
}

type Hero struct {
	Enabled         bool                `bson:"enabled" json:"enabled"`
	Title           string              `bson:"title" json:"title"`
	Subtitle        string              `bson:"subtitle" json:"subtitle"`
	ButtonText      string              `bson:"button_text" json:"button_text"`
	ButtonLink      string              `bson:"button_link" json:"button_link"`
	TextColor       string              `bson:"text_color" json:"text_color"`
	BackgroundImage *primitive.ObjectID `bson:"background_image,omitempty" json:"background_image,omitempty"`
	OverlayOpacity  float64             `bson:"overlay_opacity" json:"overlay_opacity"`
	Height          HeroHeight          `bson:"height" json:"height"`
}

type Company struct {
	Name      string `bson:"name" json:"name"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zip_code" json:"zip_code"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`
	Copyright string `bson:"copyright" json:"copyright"`
}

type SocialMedia struct {
	Facebook  string `bson:"facebook" json:"facebook"`
	Twitter   string `bson:"twitter" json:"twitter"`
	Instagram string `bson:"instagram" json:"instagram"`
	LinkedIn  string `bson:"linkedin" json:"linkedin"`
	YouTube   string `bson:"youtube" json:"youtube"`
	TikTok    string `bson:"tiktok" json:"tiktok"`
}

// Settings is the site-wide configuration document. Exactly one exists per
// deployment, keyed by SettingsKey.
type Settings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key          string             `bson:"key" json:"-"`
	Theme        Theme              `bson:"theme" json:"theme"`
	CustomColors Palette            `bson:"custom_colors" json:"custom_colors"`
	Hero         Hero               `bson:"hero" json:"hero"`
	Company      Company            `bson:"company" json:"company"`
	SocialMedia  SocialMedia        `bson:"social_media" json:"social_media"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultPalette is the stock palette, also the initial custom palette.
func DefaultPalette() Palette {
	return Palette{
		Primary:   "#0d6efd",
		Secondary: "#6c757d",
		Success:   "#198754",
		Danger:    "#dc3545",
		Warning:   "#ffc107",
		Info:      "#0dcaf0",
	}
}

// DefaultSettings returns the document created on first access.
func DefaultSettings() Settings {
	return Settings{
		Key:          SettingsKey,
		Theme:        ThemeDefault,
		CustomColors: DefaultPalette(),
		Hero: Hero{
			Enabled:        true,
			Title:          "Welcome to PPSG",
			Subtitle:       "Your trusted partner for quality services and exceptional results.",
			ButtonText:     "Get in Touch",
			ButtonLink:     "/contact",
			TextColor:      "#ffffff",
			OverlayOpacity: 0.5,
			Height:         HeroMedium,
		},
	}
}

// SettingsUpdate is a partial update. Nil sections and nil fields keep the
// stored value.
type SettingsUpdate struct {
	Theme        *Theme             `json:"theme"`
	CustomColors *PaletteUpdate     `json:"custom_colors"`
	Hero         *HeroUpdate        `json:"hero"`
	Company      *CompanyUpdate     `json:"company"`
	SocialMedia  *SocialMediaUpdate `json:"social_media"`
}

type PaletteUpdate struct {
	Primary   *string `json:"primary"`
	Secondary *string `json:"secondary"`
	Success   *string `json:"success"`
	Danger    *string `json:"danger"`
	Warning   *string `json:"warning"`
	Info      *string `json:"info"`
}

// HeroUpdate carries hero fields. An empty BackgroundImage clears the image.
type HeroUpdate struct {
	Enabled         *Flag         `json:"enabled"`
	Title           *string       `json:"title"`
	Subtitle        *string       `json:"subtitle"`
	ButtonText      *string       `json:"button_text"`
	ButtonLink      *string       `json:"button_link"`
	TextColor       *string       `json:"text_color"`
	BackgroundImage *string       `json:"background_image"`
	OverlayOpacity  OptionalFloat `json:"overlay_opacity"`
	Height          *HeroHeight   `json:"height"`
}

type CompanyUpdate struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zip_code"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Copyright *string `json:"copyright"`
}

type SocialMediaUpdate struct {
	Facebook  *string `json:"facebook"`
	Twitter   *string `json:"twitter"`
	Instagram *string `json:"instagram"`
	LinkedIn  *string `json:"linkedin"`
	YouTube   *string `json:"youtube"`
	TikTok    *string `json:"tiktok"`
}

// SiteView is the public site data: settings plus resolved image URLs.
type SiteView struct {
	Theme              Theme       `json:"theme"`
	Hero               Hero        `json:"hero"`
	HeroBackgroundURL  string      `json:"hero_background_url,omitempty"`
	Company            Company     `json:"company"`
	SocialMedia        SocialMedia `json:"social_media"`
	ThemeStylesheetURL string      `json:"theme_stylesheet_url"`
}
