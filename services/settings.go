package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/models"
	"ppsg-cms/utils"
)

// ThemeStylesheetPath is where the generated stylesheet is served.
const ThemeStylesheetPath = "/theme.css"

type SettingsStore interface {
	GetOrCreate(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the site settings, creating the defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// Update applies a partial update. The update is validated as a whole
// before anything is written.
func (s *SettingsService) Update(ctx context.Context, u models.SettingsUpdate) (*models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := ApplySettingsUpdate(settings, u); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

// ThemeCSS renders the stylesheet of the stored settings.
func (s *SettingsService) ThemeCSS(ctx context.Context) (string, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return ThemeCSS(settings), nil
}

// SiteView is the public shape of s with image URLs resolved.
func SiteView(s *models.Settings) *models.SiteView {
	v := &models.SiteView{
		Theme:              s.Theme,
		Hero:               s.Hero,
		Company:            s.Company,
		SocialMedia:        s.SocialMedia,
		ThemeStylesheetURL: ThemeStylesheetPath,
	}
	if s.Hero.BackgroundImage != nil {
		v.HeroBackgroundURL = models.ImagePath(*s.Hero.BackgroundImage, models.SizeLarge)
	}
	return v
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ApplySettingsUpdate merges u into s. Nil fields keep the stored value.
// Blank colors and blank hero texts also keep the stored value; blank
// company and social fields clear it.
func ApplySettingsUpdate(s *models.Settings, u models.SettingsUpdate) error {
	next := *s

	if u.Theme != nil {
		if !u.Theme.Valid() {
			return utils.Validationf("unknown theme %q", *u.Theme)
		}
		next.Theme = *u.Theme
	}

	if p := u.CustomColors; p != nil {
		for _, c := range []struct {
			name string
			in   *string
			dst  *string
		}{
			{"primary", p.Primary, &next.CustomColors.Primary},
			{"secondary", p.Secondary, &next.CustomColors.Secondary},
			{"success", p.Success, &next.CustomColors.Success},
			{"danger", p.Danger, &next.CustomColors.Danger},
			{"warning", p.Warning, &next.CustomColors.Warning},
			{"info", p.Info, &next.CustomColors.Info},
		} {
			if err := setColor(c.name, c.in, c.dst); err != nil {
				return err
			}
		}
	}

	if h := u.Hero; h != nil {
		if h.Enabled != nil {
			next.Hero.Enabled = bool(*h.Enabled)
		}
		keepUnlessBlank(h.Title, &next.Hero.Title)
		keepUnlessBlank(h.Subtitle, &next.Hero.Subtitle)
		keepUnlessBlank(h.ButtonText, &next.Hero.ButtonText)
		keepUnlessBlank(h.ButtonLink, &next.Hero.ButtonLink)
		if err := setColor("hero text", h.TextColor, &next.Hero.TextColor); err != nil {
			return err
		}
		if h.BackgroundImage != nil {
			id := strings.TrimSpace(*h.BackgroundImage)
			if id == "" {
				next.Hero.BackgroundImage = nil
			} else {
				oid, err := primitive.ObjectIDFromHex(id)
				if err != nil {
					return utils.Validationf("hero background image %q is not a valid media id", id)
				}
				next.Hero.BackgroundImage = &oid
			}
		}
		if v := h.OverlayOpacity.Value; v != nil {
			if *v < 0 || *v > 1 || math.IsNaN(*v) {
				return utils.Validationf("overlay opacity must be between 0 and 1")
			}
			next.Hero.OverlayOpacity = *v
		}
		if h.Height != nil {
			if !h.Height.Valid() {
				return utils.Validationf("hero height must be small, medium, large or full")
			}
			next.Hero.Height = *h.Height
		}
	}

	if c := u.Company; c != nil {
		setTrimmed(c.Name, &next.Company.Name)
		setTrimmed(c.Address, &next.Company.Address)
		setTrimmed(c.City, &next.Company.City)
		setTrimmed(c.State, &next.Company.State)
		setTrimmed(c.ZipCode, &next.Company.ZipCode)
		setTrimmed(c.Phone, &next.Company.Phone)
		setTrimmed(c.Email, &next.Company.Email)
		setTrimmed(c.Copyright, &next.Company.Copyright)
	}

	if sm := u.SocialMedia; sm != nil {
		setTrimmed(sm.Facebook, &next.SocialMedia.Facebook)
		setTrimmed(sm.Twitter, &next.SocialMedia.Twitter)
		setTrimmed(sm.Instagram, &next.SocialMedia.Instagram)
		setTrimmed(sm.LinkedIn, &next.SocialMedia.LinkedIn)
		setTrimmed(sm.YouTube, &next.SocialMedia.YouTube)
		setTrimmed(sm.TikTok, &next.SocialMedia.TikTok)
	}

	*s = next
	return nil
}

func setTrimmed(in *string, dst *string) {
	if in != nil {
		*dst = strings.TrimSpace(*in)
	}
}

func keepUnlessBlank(in *string, dst *string) {
	if in == nil {
		return
	}
	if v := strings.TrimSpace(*in); v != "" {
		*dst = v
	}
}

func setColor(name string, in *string, dst *string) error {
	if in == nil {
		return nil
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		return nil
	}
	if !hexColor.MatchString(v) {
		return utils.Validationf("%s color %q must be a hex color like #1a2b3c", name, v)
	}
	*dst = strings.ToLower(v)
	return nil
}

var themePalettes = map[models.Theme]models.Palette{
	models.ThemeDefault: models.DefaultPalette(),
	models.ThemeOcean:   {Primary: "#0066cc", Secondary: "#4a90e2", Success: "#00a86b", Danger: "#e63946", Warning: "#ffb347", Info: "#00ced1"},
	models.ThemeSky:     {Primary: "#007bff", Secondary: "#5dade2", Success: "#28a745", Danger: "#e74c3c", Warning: "#f39c12", Info: "#17a2b8"},
	models.ThemeNavy:    {Primary: "#001f3f", Secondary: "#2c3e50", Success: "#27ae60", Danger: "#c0392b", Warning: "#f1c40f", Info: "#3498db"},
	models.ThemeRoyal:   {Primary: "#4169e1", Secondary: "#6a5acd", Success: "#32cd32", Danger: "#ff4500", Warning: "#ffd700", Info: "#1e90ff"},
	models.ThemeTeal:    {Primary: "#008080", Secondary: "#20b2aa", Success: "#2ecc71", Danger: "#e74c3c", Warning: "#f39c12", Info: "#1abc9c"},
}

// PaletteFor resolves the colors of a settings document. Unknown themes use
// the default palette; blank custom colors fall back to the default ones.
func PaletteFor(s *models.Settings) models.Palette {
	if s.Theme != models.ThemeCustom {
		if p, ok := themePalettes[s.Theme]; ok {
			return p
		}
		return models.DefaultPalette()
	}

	p, d := s.CustomColors, models.DefaultPalette()
	fill := func(v *string, def string) {
		if !hexColor.MatchString(*v) {
			*v = def
		}
	}
	fill(&p.Primary, d.Primary)
	fill(&p.Secondary, d.Secondary)
	fill(&p.Success, d.Success)
	fill(&p.Danger, d.Danger)
	fill(&p.Warning, d.Warning)
	fill(&p.Info, d.Info)
	return p
}

// ThemeCSS renders the site stylesheet. The output depends only on the
// palette, so equal settings give byte-identical CSS.
func ThemeCSS(s *models.Settings) string {
	c := PaletteFor(s)
	p := c.Primary

	var b strings.Builder
	fmt.Fprintf(&b, ":root {\n")
	fmt.Fprintf(&b, "  --bs-primary: %s;\n", c.Primary)
	fmt.Fprintf(&b, "  --bs-secondary: %s;\n", c.Secondary)
	fmt.Fprintf(&b, "  --bs-success: %s;\n", c.Success)
	fmt.Fprintf(&b, "  --bs-danger: %s;\n", c.Danger)
	fmt.Fprintf(&b, "  --bs-warning: %s;\n", c.Warning)
	fmt.Fprintf(&b, "  --bs-info: %s;\n", c.Info)
	fmt.Fprintf(&b, "}\n\n")
	fmt.Fprintf(&b, ".btn-primary {\n  background-color: %s;\n  border-color: %s;\n}\n\n", p, p)
	fmt.Fprintf(&b, ".btn-primary:hover {\n  background-color: %s;\n  border-color: %s;\n}\n\n", Darken(p, 10), Darken(p, 10))
	fmt.Fprintf(&b, ".text-primary {\n  color: %s !important;\n}\n\n", p)
	fmt.Fprintf(&b, ".bg-primary {\n  background-color: %s !important;\n}\n\n", p)
	fmt.Fprintf(&b, ".border-primary {\n  border-color: %s !important;\n}\n\n", p)
	fmt.Fprintf(&b, ".admin-sidebar {\n  background: linear-gradient(135deg, %s 0%%, %s 100%%);\n}\n\n", p, Darken(p, 20))
	fmt.Fprintf(&b, "a {\n  color: %s;\n}\n\n", p)
	fmt.Fprintf(&b, "a:hover {\n  color: %s;\n}\n", Darken(p, 15))
	return b.String()
}

// Darken lowers each channel of a hex color by round(2.55*percent),
// clamping at 0. Short #rgb colors are expanded first; unparsable input is
// returned unchanged.
func Darken(color string, percent float64) string {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color
	}
	num, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color
	}

	amt := int(math.Floor(2.55*percent + 0.5))
	channel := func(v uint64) int {
		return min(255, max(0, int(v&0xff)-amt))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(num>>16), channel(num>>8), channel(num))
}
