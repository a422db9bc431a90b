package render

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"yatube/internal/models"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Date formats t as "2 января 2024".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day()) + " " + monthsGenitive[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// PageURL sets the page query parameter on base, dropping it for page 1.
func PageURL(base string, page int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Funcs is the FuncMap registered on the html engine.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": Markdown,
		"truncate": models.Truncate,
		"date":     Date,
		"pageURL":  PageURL,
		"deref": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
	}
}
