package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"

	"homedash/pkg/auth"
	"homedash/pkg/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"index",
	"login",
	"settings",
	"service-link-list",
	"service-link-form",
	"user-list",
	"user-form",
}

// view is the data handed to every page template.
type view struct {
	Title     string
	Principal *auth.Principal
	Error     string
	Version   string

	// Action is the form target or the list path used by search and pager.
	Action      string
	Search      string
	CurrentPage int
	TotalPages  int

	Links    []model.ServiceLink
	Link     *model.ServiceLink
	Users    []model.User
	EditUser *model.User
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"pages": func(total int) []int {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"pageQuery": func(page int, search string) template.URL {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if search != "" {
			q.Set("search", search)
		}
		return template.URL(q.Encode())
	},
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, v view) {
	t, ok := rd.pages[page]
	if !ok {
		log.WithField("page", page).Error("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		log.WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}
