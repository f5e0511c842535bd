package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var indexTmpl *template.Template

// loadTemplatesFromFS parses the templates under dir. Tests use it to
// simulate broken template sets.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	indexTmpl = tmpl
	return nil
}

// LoadTemplates parses the embedded templates. Call it during startup; the
// server must not start if it fails.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type Route struct {
	Label string
	Path  string
}

type IndexData struct {
	Routes []Route
}

// APIRoutes lists the public endpoints in the order the index shows them.
var APIRoutes = []Route{
	{Label: "Precipitation", Path: "/api/v1.0/precipitation"},
	{Label: "Stations", Path: "/api/v1.0/stations"},
	{Label: "TOBS", Path: "/api/v1.0/tobs"},
	{Label: "Calculated Temperatures (Start)", Path: "/api/v1.0/start"},
	{Label: "Calculated Temperatures (Start and End)", Path: "/api/v1.0/start/end"},
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
