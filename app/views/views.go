// Package views embeds and parses the HTML templates.
package views

import (
	"embed"
	"html/template"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates
var files embed.FS

// Pages lists every renderable template. Each one defines "title" and
// "content" and is executed through "layout".
var Pages = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"auth/login.html",
	"auth/signup.html",
	"core/403.html",
	"core/404.html",
	"core/500.html",
}

// Load parses every page together with the layout and shared includes.
func Load() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, page := range Pages {
		t, err := template.New(path.Base(page)).Funcs(Funcs()).ParseFS(files,
			"templates/layout.html",
			"templates/includes/*.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, err
		}
		templates[page] = t
	}
	return templates, nil
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"naturaltime": func(t time.Time) string { return humanize.Time(t) },
		"date":        func(t time.Time) string { return t.Format("2 January 2006") },
		"comma":       func(n int) string { return humanize.Comma(int64(n)) },
		"itoa":        strconv.Itoa,
		"year":        func() int { return time.Now().Year() },
		"media":       MediaURL,
		"linebreaksbr": func(s string) template.HTML {
			escaped := template.HTMLEscapeString(s)
			escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
			return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		},
	}
}

// MediaURL turns a stored media path into the URL it is served from.
func MediaURL(rel string) string {
	return "/media/" + strings.TrimPrefix(rel, "/")
}
