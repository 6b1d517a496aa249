package server

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"clock":   displayClock,
	"day":     displayDay,
	"isBoard": func(f flights.FilterState, b string) bool { return string(f.Board) == b },
	"lower":   strings.ToLower,
}

func displayClock(iso string) string {
	t, ok := flights.ParseTime(iso, time.Local)
	if !ok {
		return "-"
	}
	return t.Format("15:04")
}

func displayDay(iso string) string {
	t, ok := flights.ParseTime(iso, time.Local)
	if !ok {
		return "-"
	}
	return t.Format("02 Jan")
}

// ParseTemplate parses a page together with the shared layout.
func ParseTemplate(name string) (*template.Template, error) {
	return template.New("layout.html").Funcs(templateFuncs).ParseFS(TemplateFilesFS(), "layout.html", name)
}

type pageTemplates struct {
	index     *template.Template
	favorites *template.Template
	signIn    *template.Template
	register  *template.Template
}

func parsePageTemplates() (*pageTemplates, error) {
	var (
		p   pageTemplates
		err error
	)
	for name, dst := range map[string]**template.Template{
		"index.html":     &p.index,
		"favorites.html": &p.favorites,
		"signin.html":    &p.signIn,
		"register.html":  &p.register,
	} {
		if *dst, err = ParseTemplate(name); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
