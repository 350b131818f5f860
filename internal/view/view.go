// Package view renders the dashboard pages from embedded html/template files.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talkmaster-dashboard/internal/access"
	"github.com/iliyamo/talkmaster-dashboard/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// shared are parsed into every page.
var shared = []string{"templates/layout.html", "templates/partials.html"}

// Renderer implements echo.Renderer. Each page is parsed together with the
// layout so that every page can define its own "content" block.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"label":         func(r model.RoleName) string { return r.Label() },
	"levels":        func() []model.Level { return model.Levels },
	"subjects":      func() []string { return model.Subjects },
	"statusOptions": model.StatusEditOptions,
	"dict":          dict,
	"deref": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
}

// dict builds a map from alternating keys and values so a partial can take
// more than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// New parses every page template.
func New() (*Renderer, error) {
	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if isShared(name) {
			continue
		}
		files := append(append([]string{}, shared...), name)
		t, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func isShared(name string) bool {
	for _, s := range shared {
		if s == name {
			return true
		}
	}
	return false
}

// Render executes the layout of page name with data. The page is rendered
// into a buffer first so a template error never leaves half a page behind.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Page is the data every page template receives.
type Page struct {
	Title  string
	Active string
	Menu   []access.Entry
	User   string
	Role   model.RoleName
	Can    access.Capabilities
	Flash  *Flash
	CSRF   string // token echoed by every form post
	Data   any
}

// SignedIn reports whether the page is rendered for a signed-in visitor.
func (p Page) SignedIn() bool { return p.Role != "" }

// FlashFor returns the banner when it belongs above target.
func (p Page) FlashFor(target string) *Flash {
	if p.Flash != nil && p.Flash.Target == target {
		return p.Flash
	}
	return nil
}
