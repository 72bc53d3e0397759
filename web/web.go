package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Pages lists the page templates; each is parsed together with base.html.
var Pages = []string{"form", "login", "change-password", "admin"}

type month struct {
	Number int
	Name   string
}

var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func months() []month {
	ms := make([]month, len(monthNames))
	for i, name := range monthNames {
		ms[i] = month{Number: i + 1, Name: name}
	}
	return ms
}

// Templates parses every page, keyed by page name. Pages render through the
// "base" template.
func Templates() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"months": months,
	}

	templates := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		tmpl, err := template.New("").Funcs(funcMap).ParseFS(files,
			"templates/base.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}
	return templates, nil
}
