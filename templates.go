package main

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"panelkeu/pkg/formfield"
	"panelkeu/pkg/rupiah"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

var (
	tmplMu sync.RWMutex
	tmpl   *template.Template
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupiah":      rupiah.Format,
		"renderField": formfield.Render,
		"add":         func(a, b int) int { return a + b },
		"sub":         func(a, b int) int { return a - b },
		// data-URL invoice blobs would otherwise be neutered by the
		// contextual escaper
		"safeURL": func(s string) template.URL { return template.URL(s) },
		"roleLabel": func(role int) string {
			switch role {
			case 1:
				return "Admin"
			case 2:
				return "Staff"
			case 3:
				return "Superadmin"
			}
			return "-"
		},
		"statusLabel": func(status int) string {
			if status == 1 {
				return "Aktif"
			}
			return "Nonaktif"
		},
	}
}

// loadTemplates parses either the embedded set or, when TEMPLATE_DIR is set,
// the on-disk copies (so edits show up without a rebuild in development).
func loadTemplates() error {
	var (
		parsed *template.Template
		err    error
	)
	if dir := os.Getenv("TEMPLATE_DIR"); dir != "" {
		parsed, err = template.New("").Funcs(templateFuncs()).ParseGlob(filepath.Join(dir, "*.html"))
	} else {
		parsed, err = template.New("").Funcs(templateFuncs()).ParseFS(embeddedTemplates, "templates/*.html")
	}
	if err != nil {
		return err
	}
	tmplMu.Lock()
	tmpl = parsed
	tmplMu.Unlock()
	return nil
}

func currentTemplates() *template.Template {
	tmplMu.RLock()
	defer tmplMu.RUnlock()
	return tmpl
}

// render executes a named page template against the live template set, so a
// debug-mode reload takes effect on the next request.
func render(c *gin.Context, status int, name string, data gin.H) {
	c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := currentTemplates().ExecuteTemplate(c.Writer, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
	}
}

// watchTemplates reloads the on-disk template dir on change, debounced so a
// burst of editor writes reparses once.
func watchTemplates() {
	dir := os.Getenv("TEMPLATE_DIR")
	if dir == "" {
		return // embedded templates, nothing to watch
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("template watcher disabled: %v", err)
		return
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		log.Printf("template watcher disabled: %v", err)
		return
	}
	log.Printf("Watching %s (debounced) ...", dir)

	var pending time.Time
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 && filepath.Ext(ev.Name) == ".html" {
				pending = time.Now()
			}
		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < 300*time.Millisecond {
				continue
			}
			pending = time.Time{}
			if err := loadTemplates(); err != nil {
				log.Printf("template reload failed: %v", err)
			} else {
				log.Println("templates reloaded")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("template watcher: %v", err)
		}
	}
}
