package views

import (
	"embed"         // Templates compiled into the binary
	"fmt"           // Number formatting
	"html/template" // Escaping template engine used by gin
)

//go:embed templates/*.html
var files embed.FS

// Funcs returns the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) }, // Two decimal places
	}
}

// Templates parses every page and partial, addressed by file name such as "cart.html"
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html"))
}
