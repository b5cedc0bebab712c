package web

import (
	"embed"
	"html/template"
	"io"

	"studybuddy-ai/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

// PageData is everything the index page renders.
type PageData struct {
	ProviderName string
	EnvVar       string
	Topic        string
	Difficulty   string
	Difficulties []string
	Output       string
	Examples     []domain.ExamplePair
}

// Page renders the single form page.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded template.
func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl}, nil
}

// NewPageData fills in the static parts of the page.
func NewPageData(providerName, envVar string) PageData {
	return PageData{
		ProviderName: providerName,
		EnvVar:       envVar,
		Difficulty:   string(domain.DefaultDifficulty),
		Difficulties: domain.DifficultyNames(),
		Examples:     domain.ExamplePairs,
	}
}

func (p *Page) Render(w io.Writer, data PageData) error {
	return p.tmpl.ExecuteTemplate(w, "index.html", data)
}
