// Package resource serves the static catalogue of downloadable study
// material and external tools.
package resource

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/learnportal/api/web"
	"github.com/irsalhamdi/learnportal/api/weberr"
	"github.com/irsalhamdi/learnportal/core/listing"
	"github.com/irsalhamdi/learnportal/validate"
	"gopkg.in/yaml.v3"
)

const (
	TypePDF    = "PDF"
	TypeVideo  = "Video"
	TypeLink   = "Link"
	TypeGitHub = "GitHub"
)

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Resource struct {
	Category    string `json:"category" yaml:"category"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Size        string `json:"size,omitempty" yaml:"size"`
	URL         string `json:"url" yaml:"url"`
	Downloads   int    `json:"downloads" yaml:"downloads"`
}

type Catalogue struct {
	Categories []Category `yaml:"categories"`
	Resources  []Resource `yaml:"resources"`
}

//go:embed catalogue.yaml
var catalogueYAML []byte

// Load parses a catalogue and checks that every resource names a known
// category and type.
func Load(b []byte) (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalogue{}, fmt.Errorf("parsing resource catalogue: %w", err)
	}

	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		known[cat.ID] = true
	}
	for _, r := range c.Resources {
		if !known[r.Category] {
			return Catalogue{}, fmt.Errorf("resource %q: unknown category %q", r.Title, r.Category)
		}
		switch r.Type {
		case TypePDF, TypeVideo, TypeLink, TypeGitHub:
		default:
			return Catalogue{}, fmt.Errorf("resource %q: unknown type %q", r.Title, r.Type)
		}
	}
	return c, nil
}

// Default returns the catalogue shipped with the binary.
func Default() Catalogue {
	c, err := Load(catalogueYAML)
	if err != nil {
		panic(err)
	}
	return c
}

type Filters struct {
	Category string `json:"category" validate:"omitempty,max=64"`
	Search   string `json:"q" validate:"max=200"`
}

func Filter(rs []Resource, f Filters) []Resource {
	return listing.Filter(rs,
		listing.MatchValue(f.Category, func(r Resource) string { return r.Category }),
		listing.MatchText(f.Search,
			func(r Resource) string { return r.Title },
			func(r Resource) *string { return &r.Description },
		),
	)
}

// ActionLabel is the call to action of a resource card.
func ActionLabel(r Resource) string {
	if r.Type == TypeLink {
		return "Open Link"
	}
	return "Download"
}

type Card struct {
	Resource
	Action string `json:"action"`
}

type View struct {
	Categories   []Category `json:"categories"`
	Filters      Filters    `json:"filters"`
	Resources    []Card     `json:"resources"`
	Total        int        `json:"total"`
	EmptyMessage string     `json:"emptyMessage,omitempty"`
}

func (c Catalogue) Present(f Filters) View {
	f.Category = listing.Selection(f.Category)

	visible := Filter(c.Resources, f)
	v := View{
		Categories: append([]Category{{ID: listing.All, Name: "All Resources"}}, c.Categories...),
		Filters:    f,
		Resources:  make([]Card, 0, len(visible)),
		Total:      len(visible),
	}
	for _, r := range visible {
		v.Resources = append(v.Resources, Card{Resource: r, Action: ActionLabel(r)})
	}
	if len(visible) == 0 {
		v.EmptyMessage = "No resources found matching your criteria"
	}
	return v
}

func HandleList(c Catalogue) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filters{
			Category: web.Query(r, "category"),
			Search:   web.Query(r, "q"),
		}
		if err := validate.Check(f); err != nil {
			return weberr.Invalid(err)
		}

		return web.Respond(ctx, w, c.Present(f), http.StatusOK)
	}
}
