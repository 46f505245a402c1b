// Package web provides the embedded calculator pages and their assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

// Static contains the embedded static files (CSS, JS).
//
//go:embed static/*
var Static embed.FS

// Templates contains the embedded HTML templates.
//
//go:embed templates/*
var Templates embed.FS

// ParseTemplates parses every page and partial template.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(Templates, "templates/*.html")
}

var contentTypes = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "application/javascript",
	".svg": "image/svg+xml",
}

// Asset returns a static file by its name under static/ together with its
// content type. Names that leave the directory are rejected.
func Asset(name string) ([]byte, string, error) {
	if name == "" || strings.Contains(name, "..") || !fs.ValidPath(name) {
		return nil, "", fs.ErrNotExist
	}
	data, err := fs.ReadFile(Static, path.Join("static", name))
	if err != nil {
		return nil, "", err
	}
	ct := contentTypes[path.Ext(name)]
	if ct == "" {
		ct = "application/octet-stream"
	}
	return data, ct, nil
}
