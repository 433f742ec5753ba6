package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/joestump/vidshare/internal/build"
	"github.com/joestump/vidshare/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Title   string
	Version string
}

func newBasePage(title string) BasePage {
	return BasePage{Title: title, Version: build.Version}
}

// Alert is an inline notification rendered by the "alert" partial.
type Alert struct {
	Type    string // "success", "error", "info"
	Message string
}

// pageCache maps a render key (e.g. "index.html", "admin/dashboard.html") to a
// compiled template set containing base.html + partials + that one page file.
// Each page gets its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").Funcs(funcs).ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}

		rel, _ := strings.CutPrefix(p, "templates/pages/")
		pageCache[rel] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

var funcs = template.FuncMap{
	"mediaURL": mediaURL,
}

// mediaURL turns a catalog key into its served path. Each segment is escaped
// so names containing '#' or '?' stay in the path.
func mediaURL(filename string) string {
	segments := strings.Split(filename, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/" + strings.Join(segments, "/")
}

// render executes a full-page template (base layout + named page).
func render(w http.ResponseWriter, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
