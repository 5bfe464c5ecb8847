// Package render serves the HTML pages through Echo's Renderer interface.
// Templates are embedded so the binary is self-contained.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vaani/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names understood by Renderer.
const (
	PageIndex     = "index"
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PagePublic    = "public"
	PageNotFound  = "404"
)

// DashboardData feeds the dashboard page.
type DashboardData struct {
	Username  string
	Website   model.Website
	PublicURL string
}

// PublicData feeds a user's public page.
type PublicData struct {
	Username string
	Website  model.Website
}

// PlaceholderWebsite is shown on the public page of a user without content.
func PlaceholderWebsite(username string) model.Website {
	return model.Website{
		ShopName:    username + "'s Website",
		Description: "Welcome to my website!",
	}
}

// Renderer implements echo.Renderer over the embedded template set.
type Renderer struct {
	t *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"fieldLabel": fieldLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range []string{PageIndex, PageLogin, PageRegister, PageDashboard, PagePublic, PageNotFound} {
		if t.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q not defined", name)
		}
	}
	return &Renderer{t: t}, nil
}

// Render executes the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

func fieldLabel(field string) string {
	switch field {
	case model.FieldShopName:
		return "Shop Name"
	case model.FieldDescription:
		return "Description"
	case model.FieldAnnouncement:
		return "Announcement"
	case model.FieldImageURL:
		return "Image URL"
	}
	return field
}
