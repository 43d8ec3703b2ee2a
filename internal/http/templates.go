package http

import (
	"embed"
	"encoding/json"
	"html/template"
	"path/filepath"

	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/render"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// buttonView carries a favorite button into the template, OOB marks an
// out-of-band HTMX swap.
type buttonView struct {
	render.FavoriteButton
	OOB bool
}

var criterionLabels = map[catalog.Criterion]string{
	catalog.CriterionNewest: "Newest",
	catalog.CriterionHot:    "Most downloaded",
	catalog.CriterionName:   "Name",
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"button": func(b render.FavoriteButton) buttonView {
			return buttonView{FavoriteButton: b}
		},
		"oobButton": func(b render.FavoriteButton) buttonView {
			return buttonView{FavoriteButton: b, OOB: true}
		},
		// Styles come from render constants, never from catalog data.
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
		"hxVals": func(b render.FavoriteButton) string {
			data, _ := json.Marshal(map[string]string{"id": b.ID, "title": b.Title, "url": b.URL})
			return string(data)
		},
		"criterionLabel": func(c catalog.Criterion) string {
			if label, ok := criterionLabels[c]; ok {
				return label
			}
			return string(c)
		},
	}
}

// loadTemplates parses the templates from path, or the embedded copies when path is empty.
func loadTemplates(path string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	if path == "" {
		return tmpl.ParseFS(embeddedTemplates, "templates/*.html")
	}
	return tmpl.ParseGlob(filepath.Join(path, "*.html"))
}
